// Package blocklist normalizes the seller's list of blocked buyer emails.
package blocklist

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = validator.New()
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	whitespace = regexp.MustCompile(`\s`)
	separators = regexp.MustCompile(`,+`)
	subAddress = regexp.MustCompile(`\+.*`)
)

// Sanitize rewrites raw into one address per line. Valid addresses are
// lowercased with plus sub-addressing and dots dropped from the local part;
// anything that does not parse as an email is kept as typed (lowercased).
// Duplicates are removed keeping the first occurrence.
//
// The second result is false when raw is empty and nothing should be
// written back.
func Sanitize(raw string) (string, bool) {
	if raw == "" {
		return raw, false
	}

	text := strings.ToLower(raw)
	text = lineBreaks.ReplaceAllString(text, ",")
	text = whitespace.ReplaceAllString(text, "")

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, entry := range separators.Split(text, -1) {
		if entry == "" {
			continue
		}
		entry = Normalize(entry)
		if seen[entry] {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	return strings.Join(out, "\n"), true
}

// Normalize canonicalizes one address. Invalid input is returned unchanged.
func Normalize(email string) string {
	if !Valid(email) {
		return email
	}
	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	local = subAddress.ReplaceAllString(local, "")
	local = strings.ReplaceAll(local, ".", "")
	return local + "@" + domain
}

func Valid(email string) bool {
	return validate.Var(email, "email") == nil
}

// Lines splits sanitized text back into addresses.
func Lines(sanitized string) []string {
	if strings.TrimSpace(sanitized) == "" {
		return []string{}
	}
	return strings.Split(sanitized, "\n")
}
