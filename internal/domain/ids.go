package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slugify derives a section or disease ID from a display name: the name is
// lower-cased and every run of whitespace becomes a single "-".
// No collision check is made; two names that normalise to the same slug
// produce the same ID.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	inSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// TimestampID derives the ID of an uploaded file or banner from the upload
// time and the original content name.
func TimestampID(now time.Time, originalName string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), originalName)
}
