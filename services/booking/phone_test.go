package booking

import (
	"testing"

	"islandeats/models"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		locale string
		want   bool
	}{
		{"domestic mobile", "09012345678", models.LocaleJapanese, true},
		{"domestic landline", "0311234567", models.LocaleJapanese, true},
		{"domestic too short", "091234567", models.LocaleJapanese, false},
		{"domestic too long", "090123456789", models.LocaleJapanese, false},
		{"domestic missing leading zero", "9012345678", models.LocaleJapanese, false},
		{"domestic with hyphens", "090-1234-5678", models.LocaleJapanese, false},
		{"domestic rejects international form", "+819012345678", models.LocaleJapanese, false},
		{"international ok", "+819012345678", models.LocaleEnglish, true},
		{"international short", "+1234567", models.LocaleEnglish, true},
		{"international too short", "+123456", models.LocaleEnglish, false},
		{"international too long", "+1234567890123456", models.LocaleEnglish, false},
		{"international missing plus", "819012345678", models.LocaleEnglish, false},
		{"international rejects letters", "+81abc345678", models.LocaleEnglish, false},
		{"empty", "", models.LocaleJapanese, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.text, tt.locale))
		})
	}
}
