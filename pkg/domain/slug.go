package domain

import "strings"

// Slugify derives a URL-safe routing key from a title: lowercased, with
// every run of non-alphanumeric characters collapsed to a single hyphen and
// leading/trailing hyphens stripped. The function is deterministic and
// idempotent; titles that strip to the same token yield the same slug.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
