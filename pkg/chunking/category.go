package chunking

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var listItemPrefix = regexp.MustCompile(`^\d+\.\s`)

const maxTitleLength = 100

// SectionTitle infers a short label for a chunk. Numbered clauses are
// titled by their first line; an all-caps chunk is titled by its first line.
func SectionTitle(content string) string {
	content = strings.TrimSpace(content)
	first := firstLine(content)
	switch {
	case leadingMarker.MatchString(content):
		return truncateRunes(first, maxTitleLength)
	case isAllCaps(content):
		return first
	}
	return ""
}

// Categorize assigns the structural tag of a chunk.
func Categorize(content, title string) Category {
	content = strings.TrimSpace(content)
	switch {
	case title != "" && isAllCaps(title):
		return CategoryTitle
	case leadingMarker.MatchString(content):
		return CategoryNumberedSection
	case strings.Count(content, "\n")+1 > 3:
		return CategoryText
	case listItemPrefix.MatchString(content):
		return CategoryListItem
	}
	return CategoryOther
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func lastRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[len(r)-n:])
}
