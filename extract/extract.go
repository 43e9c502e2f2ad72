// Package extract pulls candidate phone and handle tokens out of raw
// message text. Normalization happens later, inside the engine.
package extract

import (
	"regexp"

	"dedup-telegram-bot/identifier"
)

var (
	// Digit runs with common separators; a leading + is allowed.
	phonePattern = regexp.MustCompile(`[+(]?\d[\d\s().-]{4,}\d`)
	// Telegram-style @handles.
	handlePattern = regexp.MustCompile(`@[A-Za-z0-9_]{3,32}`)
)

// Phones returns phone-like tokens in order of appearance. Candidates with
// fewer than the minimum number of digits are discarded here, so the
// engine never sees obviously short fragments.
func Phones(text string) []string {
	var out []string
	for _, m := range phonePattern.FindAllString(text, -1) {
		if len(identifier.NormalizePhone(m)) >= identifier.MinPhoneDigits {
			out = append(out, m)
		}
	}
	return out
}

// Handles returns @handle tokens in order of appearance.
func Handles(text string) []string {
	return handlePattern.FindAllString(text, -1)
}
