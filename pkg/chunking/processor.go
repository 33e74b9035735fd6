package chunking

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// pageSeparator joins normalized pages into the document text that chunk
// offsets index into.
const pageSeparator = "\n\n"

// Processor runs the whole chunking pipeline for one document at a time.
// It keeps no per-document state, so one Processor may serve concurrent
// callers.
type Processor struct {
	extractor  *PDFExtractor
	normalizer *Normalizer
	segmenter  *Segmenter
	locator    *Locator
	assembler  *Assembler
	logger     *zap.Logger
}

func NewProcessor(cfg Config, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		extractor:  NewPDFExtractor(),
		normalizer: NewNormalizer(),
		segmenter:  NewSegmenter(cfg),
		locator:    NewLocator(cfg),
		assembler:  NewAssembler(cfg),
		logger:     logger,
	}
}

// ProcessPDF extracts and chunks a PDF.
func (p *Processor) ProcessPDF(ctx context.Context, documentID string, data []byte) ([]Chunk, error) {
	doc, err := p.extractor.Extract(documentID, data)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, doc)
}

// Process chunks an extracted document. Offsets are cumulative over the
// normalized page texts joined by a blank line; empty pages contribute
// nothing.
func (p *Processor) Process(ctx context.Context, doc Document) ([]Chunk, error) {
	raw := make([]string, len(doc.Pages))
	for i, page := range doc.Pages {
		raw[i] = page.Text
	}
	stripped := p.normalizer.StripRunningLines(raw)

	var (
		chunks    []Chunk
		base      int
		textPages int
		unlocated int
	)
	for i, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := p.normalizer.Normalize(stripped[i])
		if text == "" {
			continue
		}
		if textPages > 0 {
			base += utf8.RuneCountInString(pageSeparator)
		}
		textPages++

		sections := p.segmenter.Segment(text)
		located, err := p.locator.LocateAll(ctx, page, sections)
		if err != nil {
			return nil, err
		}

		for j, s := range sections {
			if located[j].Location == nil {
				unlocated++
			}
			chunks = append(chunks, Chunk{
				Content:      s.Content,
				PageNumber:   page.Number,
				StartOffset:  base + s.Start,
				EndOffset:    base + s.End,
				LocationData: located[j].Location,
				FontInfo:     located[j].Font,
				ElementType:  page.ElementType,
			})
		}
		base += utf8.RuneCountInString(text)
	}

	if len(chunks) == 0 {
		return nil, &ExtractionError{DocumentID: doc.ID, Err: ErrEmptyDocument}
	}

	sections := len(chunks)
	chunks = p.assembler.Assemble(chunks)

	p.logger.Info("document chunked",
		zap.String("document_id", doc.ID),
		zap.Int("pages", len(doc.Pages)),
		zap.Int("sections", sections),
		zap.Int("chunks", len(chunks)),
		zap.Int("unlocated_sections", unlocated),
	)
	return chunks, nil
}

// DocumentText returns the normalized text chunk offsets refer to.
func (p *Processor) DocumentText(doc Document) string {
	raw := make([]string, len(doc.Pages))
	for i, page := range doc.Pages {
		raw[i] = page.Text
	}
	var pages []string
	for _, t := range p.normalizer.StripRunningLines(raw) {
		if t = p.normalizer.Normalize(t); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, pageSeparator)
}
