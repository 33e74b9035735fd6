package chunking

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// lineTolerance is the fraction of the font size two glyph baselines may
	// differ by and still sit on the same line.
	lineTolerance = 0.5
	// paragraphGap is the baseline distance, in font sizes, above which a
	// paragraph break is emitted.
	paragraphGap = 1.8
	// wordGap is the horizontal gap, in font sizes, treated as a space.
	wordGap = 0.15
)

// PDFExtractor reads page text and positioned glyphs out of PDF bytes.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract parses the PDF. Any parser failure, including a panic inside the
// PDF library, is reported as an *ExtractionError.
func (e *PDFExtractor) Extract(documentID string, data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{DocumentID: documentID, Err: fmt.Errorf("pdf parser panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, &ExtractionError{DocumentID: documentID, Err: err}
	}

	doc = Document{ID: documentID}
	hasText := false
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		page := readPage(i, p)
		if strings.TrimSpace(page.Text) != "" {
			hasText = true
		}
		doc.Pages = append(doc.Pages, page)
	}

	if !hasText {
		return Document{}, &ExtractionError{DocumentID: documentID, Err: ErrEmptyDocument}
	}
	return doc, nil
}

func readPage(number int, p pdf.Page) Page {
	page := Page{Number: number}
	page.Width, page.Height = mediaBox(p.V)

	for _, t := range p.Content().Text {
		page.Glyphs = append(page.Glyphs, Glyph{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
			Font:     t.Font,
		})
	}

	if len(page.Glyphs) > 0 {
		page.Text = ReconstructText(page.Glyphs)
		page.ElementType = ElementPositionedText
		return page
	}

	if text, err := p.GetPlainText(nil); err == nil {
		page.Text = text
	}
	page.ElementType = ElementPlainText
	return page
}

// mediaBox returns the page size, walking up to inherited page tree nodes.
func mediaBox(v pdf.Value) (float64, float64) {
	for node := v; !node.IsNull(); node = node.Key("Parent") {
		box := node.Key("MediaBox")
		if box.Len() == 4 {
			return box.Index(2).Float64() - box.Index(0).Float64(),
				box.Index(3).Float64() - box.Index(1).Float64()
		}
	}
	return 0, 0
}

// ReconstructText lays glyphs out as lines in drawing order. A baseline
// change starts a new line; a large vertical jump starts a new paragraph.
func ReconstructText(glyphs []Glyph) string {
	var b strings.Builder
	var prev *Glyph
	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil {
			size := math.Max(math.Max(g.FontSize, prev.FontSize), 1)
			dy := math.Abs(g.Y - prev.Y)
			switch {
			case dy > size*paragraphGap:
				b.WriteString("\n\n")
			case dy > size*lineTolerance:
				b.WriteString("\n")
			case g.X-(prev.X+prev.W) > size*wordGap && !strings.HasPrefix(g.Text, " ") && !strings.HasSuffix(prev.Text, " "):
				b.WriteString(" ")
			}
		}
		b.WriteString(g.Text)
		prev = g
	}
	return b.String()
}
