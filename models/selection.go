package models

// SelectionState names every reachable step of a requester's in-progress
// booking attempt. The absence of a session means Idle.
type SelectionState string

const (
	SelectionAwaitingName         SelectionState = "awaiting_name"
	SelectionAwaitingPhone        SelectionState = "awaiting_phone"
	SelectionAwaitingConfirmation SelectionState = "awaiting_confirmation"
)

// PendingSelection is a requester's in-progress, not-yet-confirmed choice of
// one accepted provider. At most one exists per requester; starting a new one
// replaces any prior unconfirmed attempt.
type PendingSelection struct {
	RequesterID  string         `json:"requesterId"`
	InquiryID    string         `json:"inquiryId"`
	ProviderID   string         `json:"providerId"`
	State        SelectionState `json:"state"`
	ContactName  string         `json:"contactName,omitempty"`
	ContactPhone string         `json:"contactPhone,omitempty"`
}
