package chunking

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	bareClauseNumber = regexp.MustCompile(`^\(\d+\)$`)
	pageRange        = regexp.MustCompile(`^\d+/\d+$`)
)

// Merger folds fragments that carry no meaning alone into the chunk that
// follows them.
type Merger struct {
	minChars int
}

func NewMerger(cfg Config) *Merger {
	cfg = cfg.withDefaults()
	return &Merger{minChars: cfg.MinChunkChars}
}

// Eligible reports whether a chunk's content should be merged forward.
func (m *Merger) Eligible(content string) bool {
	trimmed := strings.TrimSpace(content)
	return utf8.RuneCountInString(trimmed) < m.minChars || isMergeArtifact(trimmed)
}

// Merge scans left to right. An eligible chunk absorbs its follower and the
// follower is not evaluated again. The first chunk's page, location and
// provenance win. An eligible last chunk is kept as is.
func (m *Merger) Merge(chunks []Chunk) []Chunk {
	merged := make([]Chunk, 0, len(chunks))
	for i := 0; i < len(chunks); {
		cur := chunks[i]
		if i+1 < len(chunks) && m.Eligible(cur.Content) {
			next := chunks[i+1]
			cur.Content = cur.Content + " " + next.Content
			cur.EndOffset = next.EndOffset
			merged = append(merged, cur)
			i += 2
			continue
		}
		merged = append(merged, cur)
		i++
	}
	return merged
}

func isMergeArtifact(s string) bool {
	return bareClauseNumber.MatchString(s) || pageRange.MatchString(s)
}
