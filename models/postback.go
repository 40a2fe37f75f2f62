package models

// Postback is the callback-data token embedded in quick-reply and card
// buttons. It round-trips through the channel exactly as encoded.
type Postback struct {
	// Type marks out-of-band actions: store_reply, book, confirm_booking,
	// cancel_booking.
	Type string `json:"type,omitempty"`
	// Step marks prompt-sequence answers: lang, time, pax, pax5plus, pickup.
	Step string `json:"step,omitempty"`

	Value string `json:"v,omitempty"`
	ISO   string `json:"iso,omitempty"`
	Need  bool   `json:"need,omitempty"`

	InquiryID  string `json:"reqId,omitempty"`
	ProviderID string `json:"providerId,omitempty"`
	// Status is the provider's answer on a store_reply: "ok" or "no".
	Status string `json:"status,omitempty"`
}

const (
	PostbackTypeStoreReply = "store_reply"
	PostbackTypeBook       = "book"
	PostbackTypeConfirm    = "confirm_booking"
	PostbackTypeCancel     = "cancel_booking"

	PostbackStepLanguage      = "lang"
	PostbackStepTime          = "time"
	PostbackStepPartySize     = "pax"
	PostbackStepPartySizePlus = "pax5plus"
	PostbackStepTransport     = "pickup"

	PostbackStatusAccept  = "ok"
	PostbackStatusDecline = "no"
)
