package booking

import (
	"regexp"

	"islandeats/models"
)

// Domestic numbers are the leading-zero national form the restaurants dial
// directly; every other locale must supply an international +-prefixed number.
var (
	domesticPhonePattern      = regexp.MustCompile(`^0\d{9,10}$`)
	internationalPhonePattern = regexp.MustCompile(`^\+\d{7,15}$`)
)

// ValidPhone reports whether text is an acceptable contact phone under the
// given locale.
func ValidPhone(text, locale string) bool {
	if locale == models.LocaleJapanese {
		return domesticPhonePattern.MatchString(text)
	}
	return internationalPhonePattern.MatchString(text)
}
