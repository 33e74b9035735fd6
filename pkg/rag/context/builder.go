package context

import (
	"fmt"
	"sort"
	"strings"

	"greenregu-be/pkg/chunking"
	"greenregu-be/pkg/rag/search"
)

// Source identifies where an entry came from. It is what citations show.
type Source struct {
	ChunkID         string                 `json:"chunk_id"`
	DocumentID      string                 `json:"document_id"`
	PageNumber      int                    `json:"page_number"`
	SectionTitle    string                 `json:"section_title,omitempty"`
	LocationData    *chunking.LocationData `json:"location_data,omitempty"`
	SimilarityScore float64                `json:"similarity_score"`
}

// Entry is one numbered chunk of a query's context. Index exists only for
// the current response and is unrelated to the chunk's position in its
// document.
type Entry struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
	Source  Source `json:"source"`
}

// Context is the indexed material handed to the generation backend.
type Context struct {
	Entries []Entry
}

// Build orders candidates by descending score, keeping the backend's order
// on ties, and numbers them 0..N-1.
func Build(candidates []search.Candidate) *Context {
	sorted := make([]search.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	entries := make([]Entry, len(sorted))
	for i, c := range sorted {
		entries[i] = Entry{
			Index:   i,
			Content: c.Chunk.Content,
			Source: Source{
				ChunkID:         c.Chunk.ID,
				DocumentID:      c.Chunk.DocumentID,
				PageNumber:      c.Chunk.PageNumber,
				SectionTitle:    c.Chunk.SectionTitle,
				LocationData:    c.Chunk.LocationData,
				SimilarityScore: c.Score,
			},
		}
	}
	return &Context{Entries: entries}
}

func (c *Context) Len() int {
	return len(c.Entries)
}

func (c *Context) Empty() bool {
	return len(c.Entries) == 0
}

// Render serializes the context as "[index] Page N / Section" headed
// blocks. Chunk ids never appear in the output.
func (c *Context) Render() string {
	var b strings.Builder
	for i, e := range c.Entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("[%d] Page %d", e.Index, e.Source.PageNumber))
		if e.Source.SectionTitle != "" {
			b.WriteString(" / ")
			b.WriteString(e.Source.SectionTitle)
		}
		b.WriteString("\n")
		b.WriteString(e.Content)
	}
	return b.String()
}
