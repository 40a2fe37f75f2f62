package models

import "time"

// AcceptanceCap is the maximum number of provider acceptances collected
// before an inquiry auto-closes.
const AcceptanceCap = 3

// Inquiry is one broadcast reservation request awaiting provider responses.
type Inquiry struct {
	ID              string    `json:"id"`
	RequesterID     string    `json:"requesterId"`
	Locale          string    `json:"locale,omitempty"`
	WantedTime      time.Time `json:"wantedTime"`
	PartySize       int       `json:"partySize"`
	TransportNeeded bool      `json:"transportNeeded"`
	TransportDetail string    `json:"transportDetail,omitempty"`
	Deadline        time.Time `json:"deadline"`

	// AcceptedProviders keeps arrival order; the first AcceptanceCap
	// entries are the ones that count.
	AcceptedProviders []string `json:"acceptedProviders"`

	Closed bool `json:"closed"`

	Confirmed           bool   `json:"confirmed"`
	ConfirmedProviderID string `json:"confirmedProviderId,omitempty"`
	ContactName         string `json:"contactName,omitempty"`
	ContactPhone        string `json:"contactPhone,omitempty"`

	ReminderArmed bool `json:"reminderArmed"`

	// TimeoutArmed guards the deadline watcher; registry internal.
	TimeoutArmed bool `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	ClosedAt  time.Time `json:"closedAt,omitempty"`
}

// HasAccepted reports whether the provider is already in the accepted set.
func (inq *Inquiry) HasAccepted(providerID string) bool {
	for _, id := range inq.AcceptedProviders {
		if id == providerID {
			return true
		}
	}
	return false
}

// Clone returns a copy safe to hand outside the registry lock.
func (inq *Inquiry) Clone() *Inquiry {
	cp := *inq
	cp.AcceptedProviders = append([]string(nil), inq.AcceptedProviders...)
	return &cp
}
