package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"islandeats/channel/line"
	"islandeats/models"
	"islandeats/services/booking"
	"islandeats/services/directory"
	"islandeats/services/flow"
	"islandeats/services/inquiry"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"go.uber.org/zap"
)

// Trigger texts from the rich menu that (re)start the prompt flow.
var startTriggers = map[string]bool{
	"予約をはじめる":           true,
	"Start reservation": true,
}

// WebhookHandler receives LINE events and routes them into the engine.
// Requesters and providers share one channel; the postback payload decides
// which side an event belongs to.
type WebhookHandler struct {
	Channel   *line.Client
	Flow      *flow.Service
	Matching  inquiry.MatchingService
	Booking   booking.Service
	Registry  inquiry.Registry
	Directory directory.Service
	Logger    *zap.Logger
}

// Handle verifies and dispatches one webhook delivery. LINE retries on
// non-2xx, so everything past signature verification answers 200.
func (h *WebhookHandler) Handle(c *gin.Context) {
	events, err := h.Channel.ParseRequest(c.Request)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			c.String(http.StatusBadRequest, "bad signature")
			return
		}
		h.Logger.Warn("webhook parse failed", zap.Error(err))
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	for _, ev := range events {
		if ev.Source == nil || ev.Source.UserID == "" {
			continue
		}
		switch ev.Type {
		case linebot.EventTypeMessage:
			if text, ok := ev.Message.(*linebot.TextMessage); ok {
				h.handleText(ev, text.Text)
			}
		case linebot.EventTypePostback:
			h.handlePostback(ev)
		}
	}

	c.String(http.StatusOK, "OK")
}

func (h *WebhookHandler) handleText(ev *linebot.Event, text string) {
	userID := ev.Source.UserID
	locale := h.Flow.Locale(userID)

	if startTriggers[text] {
		h.Channel.Reply(ev.ReplyToken, userID, h.Flow.Start(userID)...)
		return
	}

	// A live selection claims free text first: name, then phone.
	if sel, ok := h.Booking.Peek(userID); ok {
		switch sel.State {
		case models.SelectionAwaitingName:
			if _, err := h.Booking.SubmitName(userID, text); err == nil {
				h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgPromptPhone, Locale: locale})
				return
			}
		case models.SelectionAwaitingPhone:
			updated, err := h.Booking.SubmitPhone(userID, text, locale)
			if errors.Is(err, booking.ErrInvalidPhoneFormat) {
				h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgInvalidPhone, Locale: locale})
				return
			}
			if err == nil {
				h.Channel.Reply(ev.ReplyToken, userID, h.confirmPrompt(updated, locale))
				return
			}
		}
		// AwaitingFinalConfirmation, or a lost race: treat the text as
		// unrecognized and fall through to the flow / fallback.
	}

	if msgs, handled := h.Flow.HandleText(userID, text); handled {
		h.Channel.Reply(ev.ReplyToken, userID, msgs...)
		return
	}

	h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgFallback, Locale: locale})
}

func (h *WebhookHandler) handlePostback(ev *linebot.Event) {
	userID := ev.Source.UserID
	locale := h.Flow.Locale(userID)

	var pb models.Postback
	if err := json.Unmarshal([]byte(ev.Postback.Data), &pb); err != nil {
		h.Logger.Warn("undecodable postback", zap.String("userId", userID), zap.Error(err))
		return
	}

	switch pb.Type {
	case models.PostbackTypeStoreReply:
		h.handleStoreReply(ev, pb)
		return

	case models.PostbackTypeBook:
		if _, err := h.Booking.BeginSelection(userID, pb.InquiryID, pb.ProviderID); err != nil {
			h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgSessionLost, Locale: locale})
			return
		}
		h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgPromptName, Locale: locale})
		return

	case models.PostbackTypeConfirm:
		res, err := h.Booking.Confirm(userID)
		switch {
		case errors.Is(err, booking.ErrNotAwaitingInput):
			h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgFallback, Locale: locale})
		case err != nil:
			h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgSessionLost, Locale: locale})
		case res.AlreadyConfirmed:
			h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgAlreadyHandled, Locale: locale})
		}
		// On success the coordinator already pushed both confirmations.
		return

	case models.PostbackTypeCancel:
		if h.Booking.Cancel(userID) {
			h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgSelectionCancelled, Locale: locale})
		} else {
			h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgFallback, Locale: locale})
		}
		return
	}

	if msgs, handled := h.Flow.HandlePostback(userID, pb); handled {
		h.Channel.Reply(ev.ReplyToken, userID, msgs...)
	}
}

// handleStoreReply ingests a provider's OK/NG. The responder identity is the
// LINE user the event arrived from, which RecordResponse checks against the
// provider's registered channel identity.
func (h *WebhookHandler) handleStoreReply(ev *linebot.Event, pb models.Postback) {
	userID := ev.Source.UserID
	accepted := pb.Status == models.PostbackStatusAccept
	res := h.Matching.RecordResponse(pb.InquiryID, pb.ProviderID, accepted, userID)

	switch res.Outcome {
	case inquiry.OutcomeRecorded, inquiry.OutcomeDeclineNoted:
		h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgResponseThanks})
	case inquiry.OutcomeDuplicateIgnored:
		h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgAlreadyHandled})
	case inquiry.OutcomeInquiryClosed:
		// Distinct from a silent drop: the provider learns it missed the window.
		h.Channel.Reply(ev.ReplyToken, userID, models.Message{Kind: models.MsgMissedWindow})
	default:
		// Unknown inquiry or a forged identity: drop without a reply.
		h.Logger.Warn("provider response dropped",
			zap.String("inquiryId", pb.InquiryID),
			zap.String("providerId", pb.ProviderID),
			zap.String("outcome", string(res.Outcome)))
	}
}

// confirmPrompt assembles the final summary shown before the requester
// commits.
func (h *WebhookHandler) confirmPrompt(sel *models.PendingSelection, locale string) models.Message {
	msg := models.Message{
		Kind:         models.MsgPromptConfirm,
		Locale:       locale,
		ContactName:  sel.ContactName,
		ContactPhone: sel.ContactPhone,
	}
	if inq, ok := h.Registry.Get(sel.InquiryID); ok {
		msg.Inquiry = inq
	}
	if prov, ok := h.Directory.Lookup(sel.ProviderID); ok {
		msg.Provider = prov
	}
	return msg
}
