package chunking

// Config holds the tunables of the segmentation pipeline.
type Config struct {
	// MaxChunkSize is the length above which a numbered section is re-split
	// on paragraph boundaries.
	MaxChunkSize int
	// MinSectionWords is the word count a non-numbered piece must exceed to
	// stand alone as a section.
	MinSectionWords int
	// MinChunkChars is the length below which a chunk is merged into its
	// follower.
	MinChunkChars int
	// ContextWindow bounds the previous/next snippets stored on a chunk.
	ContextWindow int
	// SearchKeyLength is how much of a section is used to locate it.
	SearchKeyLength int
	// LocateConcurrency bounds concurrent location lookups per page.
	LocateConcurrency int
}

// DefaultConfig mirrors the values the pipeline was tuned with.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize:      1000,
		MinSectionWords:   10,
		MinChunkChars:     50,
		ContextWindow:     200,
		SearchKeyLength:   100,
		LocateConcurrency: 4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxChunkSize <= 0 {
		c.MaxChunkSize = d.MaxChunkSize
	}
	if c.MinSectionWords <= 0 {
		c.MinSectionWords = d.MinSectionWords
	}
	if c.MinChunkChars <= 0 {
		c.MinChunkChars = d.MinChunkChars
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = d.ContextWindow
	}
	if c.SearchKeyLength <= 0 {
		c.SearchKeyLength = d.SearchKeyLength
	}
	if c.LocateConcurrency <= 0 {
		c.LocateConcurrency = d.LocateConcurrency
	}
	return c
}
