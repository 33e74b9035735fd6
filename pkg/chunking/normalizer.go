package chunking

import (
	"regexp"
	"strings"
)

var (
	pageNumberLine   = regexp.MustCompile(`^\d+$`)
	pageLabelLine    = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
	languageCodeLine = regexp.MustCompile(`^[A-Z]{2,3}$`)
	alphaTokenLine   = regexp.MustCompile(`^[A-Za-z]+$`)
	multiSpace       = regexp.MustCompile(` {2,}`)
	multiNewline     = regexp.MustCompile(`\n{3,}`)
)

// runningLineEdge is how many lines at the top and bottom of a page are
// inspected for running headers and footers.
const runningLineEdge = 2

// Normalizer cleans raw page text. It holds no state.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize strips header/footer artifacts and canonicalizes whitespace.
// Normalize(Normalize(t)) == Normalize(t).
func (n *Normalizer) Normalize(text string) string {
	text = strings.ReplaceAll(text, "\f", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")

	repeated := make(map[string]int)
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if alphaTokenLine.MatchString(t) {
			repeated[t]++
		}
	}

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = multiSpace.ReplaceAllString(strings.TrimRight(line, " \t"), " ")
		if isArtifactLine(strings.TrimSpace(line), repeated) {
			continue
		}
		kept = append(kept, line)
	}

	out := multiNewline.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func isArtifactLine(t string, repeated map[string]int) bool {
	switch {
	case t == "":
		return false
	case pageNumberLine.MatchString(t):
		return true
	case pageLabelLine.MatchString(t):
		return true
	case languageCodeLine.MatchString(t):
		return true
	case repeated[t] > 1:
		return true
	}
	return false
}

// StripRunningLines removes lines that recur at the top or bottom of at
// least half of the pages (and at least two of them). Only the edge lines
// of each page are considered, so body text is never touched.
func (n *Normalizer) StripRunningLines(pages []string) []string {
	out := make([]string, len(pages))
	copy(out, pages)
	if len(pages) < 2 {
		return out
	}

	seen := make(map[string]int)
	for _, p := range pages {
		perPage := make(map[string]bool)
		for _, line := range edgeLines(p) {
			perPage[line] = true
		}
		for line := range perPage {
			seen[line]++
		}
	}

	threshold := (len(pages) + 1) / 2
	if threshold < 2 {
		threshold = 2
	}
	running := make(map[string]bool)
	for line, count := range seen {
		if count >= threshold {
			running[line] = true
		}
	}
	if len(running) == 0 {
		return out
	}

	for i, p := range pages {
		out[i] = dropEdgeLines(p, running)
	}
	return out
}

// edgeLines returns the trimmed first and last non-empty lines of a page.
func edgeLines(page string) []string {
	var nonEmpty []string
	for _, line := range strings.Split(page, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) <= 2*runningLineEdge {
		return nonEmpty
	}
	edges := append([]string{}, nonEmpty[:runningLineEdge]...)
	return append(edges, nonEmpty[len(nonEmpty)-runningLineEdge:]...)
}

func dropEdgeLines(page string, running map[string]bool) string {
	lines := strings.Split(page, "\n")

	var idx []int
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			idx = append(idx, i)
		}
	}
	edge := make(map[int]bool)
	for i := 0; i < len(idx) && i < runningLineEdge; i++ {
		edge[idx[i]] = true
	}
	for i := len(idx) - 1; i >= 0 && i >= len(idx)-runningLineEdge; i-- {
		edge[idx[i]] = true
	}

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if edge[i] && running[strings.TrimSpace(line)] {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
