package models

import "time"

// Locales the channel renders. Domestic phone rules apply to LocaleJapanese.
const (
	LocaleJapanese = "jp"
	LocaleEnglish  = "en"
)

// PreferenceSet is the completed tuple the prompt flow hands the engine to
// create an inquiry.
type PreferenceSet struct {
	RequesterID     string    `json:"requesterId"`
	Locale          string    `json:"locale"`
	WantedTime      time.Time `json:"wantedTime"`
	PartySize       int       `json:"partySize"`
	TransportNeeded bool      `json:"transportNeeded"`
	TransportDetail string    `json:"transportDetail,omitempty"`
}
