package line

import (
	"encoding/json"
	"fmt"
	"time"

	"islandeats/models"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// All appointment times are rendered in island local time.
var jst = time.FixedZone("JST", 9*60*60)

func langText(locale, jp, en string) string {
	if locale == models.LocaleEnglish {
		return en
	}
	return jp
}

func clock(t time.Time) string {
	return t.In(jst).Format("15:04")
}

func postbackData(pb models.Postback) string {
	b, _ := json.Marshal(pb)
	return string(b)
}

func postbackButton(label, data string) *linebot.QuickReplyButton {
	return linebot.NewQuickReplyButton("", linebot.NewPostbackAction(label, data, "", "", "", ""))
}

// Render turns one tagged message into the channel payloads for it. Unknown
// kinds render to nothing, which the client treats as a silent drop.
func Render(msg models.Message) []linebot.SendingMessage {
	switch msg.Kind {
	case models.MsgPromptLanguage:
		return []linebot.SendingMessage{
			linebot.NewTextMessage("言語を選んでください / Choose your language").WithQuickReplies(
				linebot.NewQuickReplyItems(
					postbackButton("日本語", postbackData(models.Postback{Step: models.PostbackStepLanguage, Value: models.LocaleJapanese})),
					postbackButton("English", postbackData(models.Postback{Step: models.PostbackStepLanguage, Value: models.LocaleEnglish})),
				)),
		}

	case models.MsgPromptTime:
		buttons := make([]*linebot.QuickReplyButton, 0, len(msg.TimeOptions))
		for _, t := range msg.TimeOptions {
			buttons = append(buttons, postbackButton(clock(t), postbackData(models.Postback{
				Step: models.PostbackStepTime,
				ISO:  t.Format(time.RFC3339),
			})))
		}
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale, "ご希望の時間を選んでください", "Choose your time")).
				WithQuickReplies(linebot.NewQuickReplyItems(buttons...)),
		}

	case models.MsgPromptPartySize:
		buttons := make([]*linebot.QuickReplyButton, 0, 5)
		for i := 1; i <= 4; i++ {
			buttons = append(buttons, postbackButton(fmt.Sprintf("%d", i), postbackData(models.Postback{
				Step:  models.PostbackStepPartySize,
				Value: fmt.Sprintf("%d", i),
			})))
		}
		buttons = append(buttons, postbackButton("5+", postbackData(models.Postback{Step: models.PostbackStepPartySizePlus})))
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale, "人数を選んでください", "Select number of people")).
				WithQuickReplies(linebot.NewQuickReplyItems(buttons...)),
		}

	case models.MsgPromptPartySizeNumber, models.MsgInvalidPartySize:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"人数を数字で入力してください（例：6）",
				"Please enter the number of people as digits (e.g. 6)")),
		}

	case models.MsgPromptTransport:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale, "送迎は必要ですか？", "Need pickup service?")).WithQuickReplies(
				linebot.NewQuickReplyItems(
					postbackButton(langText(msg.Locale, "必要", "Need"),
						postbackData(models.Postback{Step: models.PostbackStepTransport, Need: true})),
					postbackButton(langText(msg.Locale, "不要", "No"),
						postbackData(models.Postback{Step: models.PostbackStepTransport, Need: false})),
				)),
		}

	case models.MsgPromptTransportDetail:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"ホテル名をご記入ください（任意）",
				"Please enter your hotel name (optional)")),
		}

	case models.MsgInquiryAck:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				fmt.Sprintf("照会中です。%s までに候補が届き次第表示します。", clock(msg.Inquiry.Deadline)),
				fmt.Sprintf("Request sent. We'll show options as restaurants reply (until %s).", clock(msg.Inquiry.Deadline)))),
		}

	case models.MsgInquiryBroadcast:
		return renderInquiryBroadcast(msg)

	case models.MsgNewCandidate:
		return []linebot.SendingMessage{
			linebot.NewFlexMessage(
				langText(msg.Locale, "候補が届きました", "New option available"),
				candidateBubble(msg)),
		}

	case models.MsgNoProviders:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"あいにく対応できるお店が見つかりませんでした。時間や人数を変えてお試しください。",
				"No restaurants are available right now. Please try a different time or party size.")),
		}

	case models.MsgPromptName:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale, "お名前を入力してください", "Please enter your name")),
		}

	case models.MsgPromptPhone:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"電話番号を入力してください（例：07012345678）",
				"Please enter your phone number (e.g. +81701234567)")),
		}

	case models.MsgInvalidPhone:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"電話番号の形式で入力してください（例：07012345678）",
				"That doesn't look like a phone number (e.g. +81701234567). Please try again.")),
		}

	case models.MsgPromptConfirm:
		return renderConfirmPrompt(msg)

	case models.MsgBookingConfirmedProvider:
		return renderProviderConfirmation(msg)

	case models.MsgBookingConfirmedRequester:
		return renderRequesterConfirmation(msg)

	case models.MsgReminderRequester:
		return renderRequesterReminder(msg)

	case models.MsgReminderProvider:
		return renderProviderReminder(msg)

	case models.MsgResponseThanks:
		return []linebot.SendingMessage{
			linebot.NewTextMessage("ご回答ありがとうございました。"),
		}

	case models.MsgMissedWindow:
		return []linebot.SendingMessage{
			linebot.NewTextMessage("この照会は締め切られました。ご回答ありがとうございました。"),
		}

	case models.MsgAlreadyHandled:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"こちらはすでに受付済みです。",
				"Already taken care of — you're all set.")),
		}

	case models.MsgSessionLost:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"予約情報を取得できませんでした。最初からやり直してください。",
				"We couldn't find your booking. Please start over.")),
		}

	case models.MsgSelectionCancelled:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"予約申請を取り消しました。候補から選び直せます。",
				"Your booking attempt was cancelled. You can pick another option.")),
		}

	case models.MsgFallback:
		return []linebot.SendingMessage{
			linebot.NewTextMessage(langText(msg.Locale,
				"下のリッチメニュー「予約 / Reserve」を押して開始してください。",
				"Tap \"予約 / Reserve\" in the menu below to get started.")),
		}
	}

	return nil
}

func transportLabel(inq *models.Inquiry) string {
	if !inq.TransportNeeded {
		return "不要"
	}
	if inq.TransportDetail != "" {
		return fmt.Sprintf("希望（%s）", inq.TransportDetail)
	}
	return "希望"
}

func renderInquiryBroadcast(msg models.Message) []linebot.SendingMessage {
	inq := msg.Inquiry
	text := fmt.Sprintf("【照会】%s／%d名／送迎：%s\n⏰ 締切：%s\n押すだけで返信👇\nREQ: %s",
		clock(inq.WantedTime), inq.PartySize, transportLabel(inq), clock(inq.Deadline), inq.ID)

	accept := models.Postback{
		Type:       models.PostbackTypeStoreReply,
		InquiryID:  inq.ID,
		ProviderID: msg.Provider.ID,
		Status:     models.PostbackStatusAccept,
	}
	decline := accept
	decline.Status = models.PostbackStatusDecline

	return []linebot.SendingMessage{
		linebot.NewTextMessage(text).WithQuickReplies(linebot.NewQuickReplyItems(
			postbackButton("OK", postbackData(accept)),
			postbackButton("不可", postbackData(decline)),
		)),
	}
}

// candidateBubble is the card a requester sees for each restaurant that
// accepted: name, short profile, map link, and a book button carrying the
// inquiry and provider IDs as callback data.
func candidateBubble(msg models.Message) *linebot.BubbleContainer {
	prov := msg.Provider
	book := postbackData(models.Postback{
		Type:       models.PostbackTypeBook,
		InquiryID:  msg.Inquiry.ID,
		ProviderID: prov.ID,
	})

	return &linebot.BubbleContainer{
		Type: linebot.FlexContainerTypeBubble,
		Body: &linebot.BoxComponent{
			Type:   linebot.FlexComponentTypeBox,
			Layout: linebot.FlexBoxLayoutTypeVertical,
			Contents: []linebot.FlexComponent{
				&linebot.TextComponent{
					Type:   linebot.FlexComponentTypeText,
					Text:   prov.DisplayName,
					Weight: linebot.FlexTextWeightTypeBold,
					Size:   linebot.FlexTextSizeTypeLg,
					Wrap:   true,
				},
				&linebot.TextComponent{
					Type:   linebot.FlexComponentTypeText,
					Text:   prov.Profile,
					Size:   linebot.FlexTextSizeTypeSm,
					Wrap:   true,
					Margin: linebot.FlexComponentMarginTypeMd,
				},
			},
		},
		Footer: &linebot.BoxComponent{
			Type:    linebot.FlexComponentTypeBox,
			Layout:  linebot.FlexBoxLayoutTypeVertical,
			Spacing: linebot.FlexComponentSpacingTypeSm,
			Contents: []linebot.FlexComponent{
				&linebot.ButtonComponent{
					Type:   linebot.FlexComponentTypeButton,
					Style:  linebot.FlexButtonStyleTypePrimary,
					Action: linebot.NewURIAction(langText(msg.Locale, "Googleマップ", "Google Maps"), prov.MapURL),
				},
				&linebot.ButtonComponent{
					Type:   linebot.FlexComponentTypeButton,
					Style:  linebot.FlexButtonStyleTypeLink,
					Action: linebot.NewPostbackAction(langText(msg.Locale, "この店に予約申請", "Book this place"), book, "", "", "", ""),
				},
			},
		},
	}
}

func renderConfirmPrompt(msg models.Message) []linebot.SendingMessage {
	inq := msg.Inquiry
	if inq == nil {
		inq = &models.Inquiry{}
	}
	name := ""
	if msg.Provider != nil {
		name = msg.Provider.DisplayName
	}
	summary := langText(msg.Locale,
		fmt.Sprintf("この内容で予約申請します：\n%s\n%s／%d名\nお名前：%s\n電話：%s",
			name, clock(inq.WantedTime), inq.PartySize, msg.ContactName, msg.ContactPhone),
		fmt.Sprintf("Ready to book:\n%s\n%s / %d people\nName: %s\nPhone: %s",
			name, clock(inq.WantedTime), inq.PartySize, msg.ContactName, msg.ContactPhone))

	return []linebot.SendingMessage{
		linebot.NewTextMessage(summary).WithQuickReplies(linebot.NewQuickReplyItems(
			postbackButton(langText(msg.Locale, "確定する", "Confirm"),
				postbackData(models.Postback{Type: models.PostbackTypeConfirm})),
			postbackButton(langText(msg.Locale, "やり直す", "Start over"),
				postbackData(models.Postback{Type: models.PostbackTypeCancel})),
		)),
	}
}

func renderProviderConfirmation(msg models.Message) []linebot.SendingMessage {
	inq := msg.Inquiry
	text := fmt.Sprintf("【予約確定】\nお名前：%s\n電話：%s\n希望：%s／%d名／送迎：%s",
		msg.ContactName, msg.ContactPhone, clock(inq.WantedTime), inq.PartySize, transportLabel(inq))
	return []linebot.SendingMessage{linebot.NewTextMessage(text)}
}

func renderRequesterConfirmation(msg models.Message) []linebot.SendingMessage {
	mapURL := ""
	if msg.Provider != nil {
		mapURL = msg.Provider.MapURL
	}
	base := langText(msg.Locale,
		fmt.Sprintf("ご予約が確定しました。キャンセルはお電話のみでお願いします。\nGoogleマップ：%s", mapURL),
		fmt.Sprintf("Your booking is confirmed. For cancellation, please call the restaurant directly.\nGoogle Maps: %s", mapURL))

	out := []linebot.SendingMessage{linebot.NewTextMessage(base)}
	if msg.Inquiry.TransportNeeded {
		out = append(out, linebot.NewTextMessage(langText(msg.Locale,
			fmt.Sprintf("送迎はホテルのエントランス前でお待ちください（%s）。", msg.Inquiry.TransportDetail),
			fmt.Sprintf("For pickup, please wait at your hotel entrance (%s).", msg.Inquiry.TransportDetail))))
	}
	return out
}

func renderRequesterReminder(msg models.Message) []linebot.SendingMessage {
	inq := msg.Inquiry
	return []linebot.SendingMessage{
		linebot.NewTextMessage(langText(msg.Locale,
			fmt.Sprintf("まもなくご予約の時間です：%s／%d名／送迎：%s\n※無断キャンセルはご遠慮ください。",
				clock(inq.WantedTime), inq.PartySize, transportLabel(inq)),
			fmt.Sprintf("Your reservation is coming up: %s / %d people / pickup: %v\nPlease call the restaurant if you can't make it — no-shows hurt small kitchens.",
				clock(inq.WantedTime), inq.PartySize, inq.TransportNeeded))),
	}
}

func renderProviderReminder(msg models.Message) []linebot.SendingMessage {
	inq := msg.Inquiry
	text := fmt.Sprintf("【リマインド】%s／%d名／送迎：%s\nお名前：%s（%s）",
		clock(inq.WantedTime), inq.PartySize, transportLabel(inq), msg.ContactName, msg.ContactPhone)
	return []linebot.SendingMessage{linebot.NewTextMessage(text)}
}
