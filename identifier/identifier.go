package identifier

import "strings"

// Kind distinguishes the two identifier categories tracked by the bot.
type Kind string

const (
	Phone  Kind = "phone"
	Handle Kind = "handle"
)

// MinPhoneDigits is the shortest normalized phone number accepted during
// extraction and history seeding.
const MinPhoneDigits = 7

// NormalizePhone strips every non-digit character so that formatting
// differences (spaces, dashes, parentheses, a leading +) never make the
// same number look novel. It performs no length validation.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// NormalizeHandle lower-cases a handle token, leading @ marker included.
func NormalizeHandle(raw string) string {
	return strings.ToLower(raw)
}

// Normalize applies the kind-appropriate normalization.
func Normalize(kind Kind, raw string) string {
	if kind == Phone {
		return NormalizePhone(raw)
	}
	return NormalizeHandle(raw)
}
