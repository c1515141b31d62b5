// Package privacy keeps patient identifiers out of logs.
package privacy

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
)

// Hash returns the hex SHA-256 of a normalized identifier such as an email
// address, so log lines about the same recipient can be correlated.
func Hash(identifier string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(identifier))))
	return fmt.Sprintf("%x", h)
}

// ScrubPII replaces emails with [EMAIL] and phone numbers with [PHONE].
func ScrubPII(text string) string {
	text = emailRe.ReplaceAllString(text, "[EMAIL]")
	text = phoneRe.ReplaceAllString(text, "[PHONE]")
	return text
}

// Preview scrubs text and cuts it to at most max runes for a log attribute.
func Preview(text string, max int) string {
	text = strings.TrimSpace(text)
	if max > 0 && utf8.RuneCountInString(text) > max {
		text = string([]rune(text)[:max]) + "..."
	}
	return ScrubPII(text)
}
