package models

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Slugify normalizes a title into a lowercase, hyphen-separated, ASCII-safe
// identifier. Characters outside [a-z0-9] collapse into single hyphens and
// leading/trailing hyphens are stripped, so an all-symbol title yields "".
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// RandomSlugToken returns an 8-character hexadecimal token.
func RandomSlugToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// PostSlug derives the slug assigned to a post at save time. The random token
// is always appended, so two posts with the same title never collide and no
// probing against the posts table is needed.
func PostSlug(title string) string {
	return Slugify(title + " " + RandomSlugToken())
}

// UniqueSlug derives a slug for flat entities (categories, tags) created in
// bulk, probing with an incrementing numeric suffix until taken reports free.
// An unslugifiable name falls back to a random token before probing.
func UniqueSlug(name string, taken func(slug string) bool) string {
	base := Slugify(name)
	if base == "" {
		base = RandomSlugToken()
	}

	slug := base
	for counter := 1; taken(slug); counter++ {
		slug = base + "-" + strconv.Itoa(counter)
	}
	return slug
}
