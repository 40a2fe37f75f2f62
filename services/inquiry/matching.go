package inquiry

import (
	"time"

	"islandeats/models"
	"islandeats/services/directory"
	"islandeats/services/notification"

	"go.uber.org/zap"
)

// ResponseOutcome classifies what happened to a provider's accept/decline.
type ResponseOutcome string

const (
	OutcomeRecorded         ResponseOutcome = "recorded"
	OutcomeDeclineNoted     ResponseOutcome = "decline_noted"
	OutcomeDuplicateIgnored ResponseOutcome = "duplicate_ignored"
	OutcomeInquiryClosed    ResponseOutcome = "inquiry_closed"
	OutcomeUnknownInquiry   ResponseOutcome = "unknown_inquiry"
	OutcomeIdentityMismatch ResponseOutcome = "identity_mismatch"
)

// ResponseResult is what RecordResponse reports back to the webhook layer.
// CapReached is true when this acceptance was the one that closed the inquiry.
type ResponseResult struct {
	Outcome    ResponseOutcome
	CapReached bool
	Provider   *models.ProviderRecord
}

// MatchingService applies the acceptance policy and broadcasts inquiries.
type MatchingService interface {
	RecordResponse(inquiryID, providerID string, accepted bool, responderIdentity string) ResponseResult
	Broadcast(inq *models.Inquiry)
}

// DefaultMatchingService implements MatchingService.
type DefaultMatchingService struct {
	Registry  Registry
	Directory directory.Service
	Messenger notification.Messenger
	Logger    *zap.Logger
}

// RecordResponse ingests one provider accept/decline. The closed check and the
// add+cap check run inside a single registry update, so there is no window in
// which a fourth acceptance can slip past the cap or a late acceptance past a
// concurrent finalization.
func (s *DefaultMatchingService) RecordResponse(inquiryID, providerID string, accepted bool, responderIdentity string) ResponseResult {
	prov, provKnown := s.Directory.Lookup(providerID)

	var res ResponseResult
	var snapshot *models.Inquiry

	found := s.Registry.Update(inquiryID, func(inq *models.Inquiry) {
		// A response must come from the provider's registered channel
		// identity, and a provider can never answer its own inquiry.
		if !provKnown || prov.ChannelIdentity != responderIdentity {
			res.Outcome = OutcomeIdentityMismatch
			return
		}
		if providerID == inq.RequesterID || prov.ChannelIdentity == inq.RequesterID {
			res.Outcome = OutcomeIdentityMismatch
			return
		}
		if inq.Closed || time.Now().After(inq.Deadline) {
			res.Outcome = OutcomeInquiryClosed
			return
		}
		if !accepted {
			res.Outcome = OutcomeDeclineNoted
			return
		}
		if inq.HasAccepted(providerID) {
			res.Outcome = OutcomeDuplicateIgnored
			return
		}

		inq.AcceptedProviders = append(inq.AcceptedProviders, providerID)
		if len(inq.AcceptedProviders) >= models.AcceptanceCap {
			inq.Closed = true
			inq.ClosedAt = time.Now()
			res.CapReached = true
		}
		res.Outcome = OutcomeRecorded
		snapshot = inq.Clone()
	})
	if !found {
		return ResponseResult{Outcome: OutcomeUnknownInquiry}
	}
	res.Provider = prov

	if res.Outcome == OutcomeRecorded {
		s.Logger.Info("provider accepted inquiry",
			zap.String("inquiryId", inquiryID),
			zap.String("providerId", providerID),
			zap.Int("accepted", len(snapshot.AcceptedProviders)),
			zap.Bool("capReached", res.CapReached))

		// Post-commit side effect, fire-and-forget.
		s.Messenger.SendToRequester(snapshot.RequesterID, models.Message{
			Kind:     models.MsgNewCandidate,
			Locale:   snapshot.Locale,
			Inquiry:  snapshot,
			Provider: prov,
		})
	}

	return res
}

// Broadcast pushes the inquiry card to every eligible provider. A provider
// that cannot do pickup is skipped when the requester asked for it, and an
// inquiry is never offered to its own requester. Individual push failures are
// the messenger's problem; the loop always completes.
func (s *DefaultMatchingService) Broadcast(inq *models.Inquiry) {
	providers := s.Directory.Eligible(inq.TransportNeeded)
	sent := 0
	for _, p := range providers {
		if p.ID == inq.RequesterID || p.ChannelIdentity == inq.RequesterID {
			continue
		}
		prov := p
		s.Messenger.SendToProvider(prov.ChannelIdentity, models.Message{
			Kind:     models.MsgInquiryBroadcast,
			Locale:   inq.Locale,
			Inquiry:  inq,
			Provider: &prov,
		})
		sent++
	}
	s.Logger.Info("inquiry broadcast",
		zap.String("inquiryId", inq.ID),
		zap.Int("providers", sent),
		zap.Time("deadline", inq.Deadline))
}
