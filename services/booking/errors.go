package booking

import "fmt"

// SelectionError is a recoverable booking-flow failure. Every one maps to a
// polite localized reply, never a fatal fault.
type SelectionError struct {
	Code    string
	Message string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrInvalidSelection: the inquiry is unknown or the provider never
	// accepted it.
	ErrInvalidSelection = &SelectionError{Code: "invalidSelection", Message: "provider is not an accepted candidate for this inquiry"}

	// ErrInvalidPhoneFormat: the submitted phone fails the locale's format;
	// the selection stays in AwaitingPhone.
	ErrInvalidPhoneFormat = &SelectionError{Code: "invalidPhoneFormat", Message: "phone number format is invalid for the locale"}

	// ErrSessionNotFound: no pending selection exists for the requester.
	ErrSessionNotFound = &SelectionError{Code: "sessionNotFound", Message: "no booking in progress for this requester"}

	// ErrNotAwaitingInput: the selection exists but is not in the state this
	// input belongs to. Callers route the text to the generic fallback reply.
	ErrNotAwaitingInput = &SelectionError{Code: "notAwaitingInput", Message: "input does not match the current booking step"}
)
