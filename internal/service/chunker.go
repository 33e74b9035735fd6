package service

import (
	"context"

	"greenregu-be/pkg/chunking"
)

// ChunkedDocument is the pipeline output the processor stores.
type ChunkedDocument struct {
	Chunks    []chunking.Chunk
	PageCount int
	// Text is the normalized document text chunk offsets refer to.
	Text string
}

// IChunker turns PDF bytes into chunks.
type IChunker interface {
	Chunk(ctx context.Context, documentId string, data []byte) (*ChunkedDocument, error)
}

type pdfChunker struct {
	extractor *chunking.PDFExtractor
	processor *chunking.Processor
}

func NewPDFChunker(processor *chunking.Processor) IChunker {
	return &pdfChunker{
		extractor: chunking.NewPDFExtractor(),
		processor: processor,
	}
}

func (c *pdfChunker) Chunk(ctx context.Context, documentId string, data []byte) (*ChunkedDocument, error) {
	doc, err := c.extractor.Extract(documentId, data)
	if err != nil {
		return nil, err
	}

	chunks, err := c.processor.Process(ctx, doc)
	if err != nil {
		return nil, err
	}

	return &ChunkedDocument{
		Chunks:    chunks,
		PageCount: len(doc.Pages),
		Text:      c.processor.DocumentText(doc),
	}, nil
}
