package logging

import (
	"log/slog"
	"strings"
	"unicode"
)

// RedactedValue is the placeholder used for member PII in logs.
const RedactedValue = "[REDACTED]"

// MaskPhone keeps the last two digits of a phone number and masks the rest.
// Non-digit input is fully redacted.
func MaskPhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return trimmed
	}
	digits := 0
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 3 {
		return RedactedValue
	}
	return strings.Repeat("*", len(trimmed)-2) + trimmed[len(trimmed)-2:]
}

// MemberQuery returns a log attribute for an operator-entered card id or
// phone number. Anything long enough to be a phone number is masked.
func MemberQuery(key, value string) slog.Attr {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) >= 7 {
		return slog.String(key, MaskPhone(trimmed))
	}
	return slog.String(key, trimmed)
}
