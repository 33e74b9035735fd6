package chunking

import (
	"context"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Located is the best-effort position of a section on its page. Both
// fields are nil when the section's leading text was not found.
type Located struct {
	Location *LocationData
	Font     *FontInfo
}

// Locator maps section text back onto the positioned glyphs of a page.
type Locator struct {
	keyLength   int
	concurrency int
}

func NewLocator(cfg Config) *Locator {
	cfg = cfg.withDefaults()
	return &Locator{
		keyLength:   cfg.SearchKeyLength,
		concurrency: cfg.LocateConcurrency,
	}
}

// glyphStream is a page's text with whitespace removed and case folded,
// with every byte attributed to the glyph that produced it.
type glyphStream struct {
	text  string
	owner []int
}

func newGlyphStream(glyphs []Glyph) glyphStream {
	var b strings.Builder
	var owner []int
	for i, g := range glyphs {
		for _, r := range g.Text {
			if unicode.IsSpace(r) {
				continue
			}
			n, _ := b.WriteRune(unicode.ToLower(r))
			for j := 0; j < n; j++ {
				owner = append(owner, i)
			}
		}
	}
	return glyphStream{text: b.String(), owner: owner}
}

// Locate resolves one section against a page. Only the first occurrence of
// the search key is used.
func (l *Locator) Locate(page Page, section Section) Located {
	return l.locate(page, newGlyphStream(page.Glyphs), section)
}

// LocateAll resolves every section of a page concurrently. Results are
// positional: out[i] belongs to sections[i].
func (l *Locator) LocateAll(ctx context.Context, page Page, sections []Section) ([]Located, error) {
	out := make([]Located, len(sections))
	if len(page.Glyphs) == 0 {
		return out, nil
	}
	stream := newGlyphStream(page.Glyphs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i := range sections {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = l.locate(page, stream, sections[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Locator) locate(page Page, stream glyphStream, section Section) Located {
	key := searchKey(section.Content, l.keyLength)
	if key == "" || stream.text == "" {
		return Located{}
	}
	idx := strings.Index(stream.text, key)
	if idx < 0 {
		return Located{}
	}

	first := stream.owner[idx]
	last := stream.owner[idx+len(key)-1]

	box := glyphBox(page, page.Glyphs[first])
	for i := first + 1; i <= last; i++ {
		box = union(box, glyphBox(page, page.Glyphs[i]))
	}

	loc := &LocationData{
		BBox: box,
		PDFCoordinates: PDFCoordinates{
			Page:     page.Number,
			Position: [2]float64{box.X0, box.Y0},
		},
	}

	var font *FontInfo
	if g := page.Glyphs[first]; g.Font != "" || g.FontSize > 0 {
		font = &FontInfo{Name: g.Font, Size: g.FontSize}
	}
	return Located{Location: loc, Font: font}
}

// searchKey takes the first n runes of the trimmed content, then drops
// whitespace and folds case to match the glyph stream.
func searchKey(content string, n int) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > n {
		content = string([]rune(content)[:n])
	}
	var b strings.Builder
	for _, r := range content {
		if !unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// glyphBox converts a glyph from PDF user space to top-left page space.
func glyphBox(page Page, g Glyph) BBox {
	if page.Height <= 0 {
		return BBox{X0: g.X, Y0: g.Y, X1: g.X + g.W, Y1: g.Y + g.FontSize}
	}
	return BBox{
		X0: g.X,
		Y0: page.Height - (g.Y + g.FontSize),
		X1: g.X + g.W,
		Y1: page.Height - g.Y,
	}
}

func union(a, b BBox) BBox {
	return BBox{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}
