package chunking

// Assembler turns located sections into the final ordered chunk records of
// a document.
type Assembler struct {
	merger        *Merger
	contextWindow int
}

func NewAssembler(cfg Config) *Assembler {
	cfg = cfg.withDefaults()
	return &Assembler{
		merger:        NewMerger(cfg),
		contextWindow: cfg.ContextWindow,
	}
}

// Assemble drops table-like spans, merges fragments, and then numbers,
// titles, tags and links the surviving chunks.
func (a *Assembler) Assemble(chunks []Chunk) []Chunk {
	kept := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if IsTableLike(c) {
			continue
		}
		kept = append(kept, c)
	}

	merged := a.merger.Merge(kept)
	for i := range merged {
		c := &merged[i]
		c.ChunkIndex = i
		if c.SectionTitle == "" {
			c.SectionTitle = SectionTitle(c.Content)
		}
		c.Category = Categorize(c.Content, c.SectionTitle)

		c.Context = ChunkContext{}
		if i > 0 {
			c.Context.Previous = lastRunes(merged[i-1].Content, a.contextWindow)
		}
		if i+1 < len(merged) {
			c.Context.Next = truncateRunes(merged[i+1].Content, a.contextWindow)
		}
	}
	return merged
}
