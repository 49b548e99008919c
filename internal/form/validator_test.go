package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
		want  string
	}{
		{name: "russian trunk prefix", raw: "89123456789", valid: true, want: "+79123456789"},
		{name: "international", raw: "+79123456789", valid: true, want: "+79123456789"},
		{name: "separators", raw: "+7 (912) 345-67-89", valid: true, want: "+79123456789"},
		{name: "country code without plus", raw: "79123456789", valid: true, want: "+79123456789"},
		{name: "ten digit mobile", raw: "9123456789", valid: true, want: "+79123456789"},
		{name: "ten digit landline", raw: "(495) 123-45-67", valid: true, want: "+74951234567"},
		{name: "foreign with plus", raw: "+4951234567", valid: true, want: "+4951234567"},
		{name: "too short", raw: "12345", valid: false},
		{name: "letters", raw: "+7912abc4567", valid: false},
		{name: "too long", raw: "+7912345678901234", valid: false},
		{name: "empty", raw: "   ", valid: false},
	}

	validate := Phone()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validate(tt.raw)
			assert.Equal(t, tt.valid, result.Valid())
			if tt.valid {
				assert.Equal(t, tt.want, result.Value)
			} else {
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestPhone_FormatMessage(t *testing.T) {
	result := Phone()("12345")

	assert.False(t, result.Valid())
	assert.Equal(t, msgPhoneFormat, result.Message)
}

func TestLength(t *testing.T) {
	validate := Length(5, 10, "short", "long")

	tests := []struct {
		raw     string
		message string
		value   string
	}{
		{raw: "плитка", value: "плитка"},
		{raw: "  плитка  ", value: "плитка"},
		{raw: "abc", message: "short"},
		{raw: "     ", message: "short"},
		{raw: "", message: "short"},
		{raw: strings.Repeat("я", 11), message: "long"},
		{raw: strings.Repeat("я", 10), value: strings.Repeat("я", 10)},
	}

	for _, tt := range tests {
		result := validate(tt.raw)
		assert.Equal(t, tt.message, result.Message, "raw %q", tt.raw)
		assert.Equal(t, tt.value, result.Value, "raw %q", tt.raw)
	}
}

func TestLinkOrNone(t *testing.T) {
	validate := LinkOrNone(200)

	assert.Equal(t, "https://example.com/works", validate("https://example.com/works").Value)
	assert.Equal(t, "@master_tile", validate("@master_tile").Value)
	assert.Equal(t, "t.me/master_tile", validate("t.me/master_tile").Value)
	assert.Equal(t, "нет", validate("НЕТ").Value)
	assert.Equal(t, "нет", validate("-").Value)

	assert.Equal(t, msgLinkFormat, validate("мой сайт").Message)
	assert.Equal(t, msgLinkFormat, validate("https://").Message)
	assert.Equal(t, msgLinkRequired, validate(" ").Message)
	assert.NotEmpty(t, validate("https://"+strings.Repeat("a", 200)).Message)
}
