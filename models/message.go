package models

import "time"

// MessageKind tags an outbound notification intent. The channel adapter owns
// turning a kind into concrete chat payloads (text, quick replies, cards);
// the engine only ever constructs Message values.
type MessageKind string

const (
	// Prompt sequence toward the requester.
	MsgPromptLanguage        MessageKind = "prompt_language"
	MsgPromptTime            MessageKind = "prompt_time"
	MsgPromptPartySize       MessageKind = "prompt_party_size"
	MsgPromptPartySizeNumber MessageKind = "prompt_party_size_number"
	MsgPromptTransport       MessageKind = "prompt_transport"
	MsgPromptTransportDetail MessageKind = "prompt_transport_detail"
	MsgPromptName            MessageKind = "prompt_name"
	MsgPromptPhone           MessageKind = "prompt_phone"
	MsgPromptConfirm         MessageKind = "prompt_confirm"

	// Inquiry lifecycle.
	MsgInquiryAck       MessageKind = "inquiry_ack"
	MsgInquiryBroadcast MessageKind = "inquiry_broadcast"
	MsgNewCandidate     MessageKind = "new_candidate"
	MsgNoProviders      MessageKind = "no_providers"

	// Finalization and reminders.
	MsgBookingConfirmedProvider  MessageKind = "booking_confirmed_provider"
	MsgBookingConfirmedRequester MessageKind = "booking_confirmed_requester"
	MsgReminderRequester         MessageKind = "reminder_requester"
	MsgReminderProvider          MessageKind = "reminder_provider"

	// Provider-side acknowledgments.
	MsgResponseThanks MessageKind = "response_thanks"
	MsgMissedWindow   MessageKind = "missed_window"

	// Recovered-error replies.
	MsgInvalidPhone       MessageKind = "invalid_phone"
	MsgInvalidPartySize   MessageKind = "invalid_party_size"
	MsgAlreadyHandled     MessageKind = "already_handled"
	MsgSessionLost        MessageKind = "session_lost"
	MsgSelectionCancelled MessageKind = "selection_cancelled"
	MsgFallback           MessageKind = "fallback"
)

// Message is the tagged-variant payload handed to the messaging collaborator.
// Only the fields a given kind needs are populated.
type Message struct {
	Kind   MessageKind `json:"kind"`
	Locale string      `json:"locale,omitempty"`

	Inquiry  *Inquiry        `json:"inquiry,omitempty"`
	Provider *ProviderRecord `json:"provider,omitempty"`

	ContactName  string `json:"contactName,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`

	// TimeOptions carries the suggested half-hour slots for prompt_time.
	TimeOptions []time.Time `json:"timeOptions,omitempty"`
}
