package chunking

import (
	"math"
	"regexp"
	"strings"
)

var numericToken = regexp.MustCompile(`^[-+(]?[\d.,/%:]*\d[\d.,/%:]*[)]?$`)

const (
	// maxCellTokens is the most tokens a line may carry and still read as
	// a table cell or row label.
	maxCellTokens = 2
	// minCellLines is how many cell-like lines a span needs before its
	// shape alone marks it as a table.
	minCellLines = 3
	// maxTableBoxLines is the most text lines a table row's box may span.
	maxTableBoxLines = 2

	defaultFontSize = 10.0
	lineLeading     = 1.2
)

// IsTableLike reports whether a chunk is a run of table cells rather than
// prose. A chunk is table-like when:
//   - every token is numeric, or
//   - it is made of short cell lines that are mostly numeric, or
//   - it is made of short cell lines whose located box encloses at most
//     two lines of text, so the cells were drawn side by side.
//
// Merge artifacts such as "(7)" or "71/77" are never table-like; the merger
// owns them.
func IsTableLike(c Chunk) bool {
	trimmed := strings.TrimSpace(c.Content)
	if trimmed == "" || isMergeArtifact(trimmed) {
		return false
	}

	tokens := strings.Fields(trimmed)
	numeric := 0
	for _, tok := range tokens {
		if numericToken.MatchString(tok) {
			numeric++
		}
	}
	if numeric == len(tokens) {
		return true
	}

	lines := nonEmptyLines(trimmed)
	if len(lines) < minCellLines {
		return false
	}
	for _, line := range lines {
		if len(strings.Fields(line)) > maxCellTokens {
			return false
		}
	}
	if numeric*2 >= len(tokens) {
		return true
	}
	return c.LocationData != nil && boxLines(c) <= maxTableBoxLines
}

// boxLines estimates how many text lines the chunk's located box spans
// from its height and the font size of its first glyph.
func boxLines(c Chunk) int {
	size := defaultFontSize
	if c.FontInfo != nil && c.FontInfo.Size > 0 {
		size = c.FontInfo.Size
	}
	height := c.LocationData.BBox.Y1 - c.LocationData.BBox.Y0
	if height <= 0 {
		return 1
	}
	return int(math.Ceil(height / (size * lineLeading)))
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
