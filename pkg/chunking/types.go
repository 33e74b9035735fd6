package chunking

// Category tags a chunk by its structural shape.
type Category string

const (
	CategoryTitle           Category = "Title"
	CategoryNumberedSection Category = "Numbered Section"
	CategoryListItem        Category = "List Item"
	CategoryText            Category = "Text"
	CategoryOther           Category = "Other"
)

// BBox is a rectangle in page space, origin at the top-left corner.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// PDFCoordinates points back into the rendered page.
type PDFCoordinates struct {
	Page     int        `json:"page"`
	Position [2]float64 `json:"position"`
}

// LocationData is where a chunk's leading text was found on its page.
type LocationData struct {
	BBox           BBox           `json:"bbox"`
	PDFCoordinates PDFCoordinates `json:"pdf_coordinates"`
}

// FontInfo is passthrough provenance from extraction.
type FontInfo struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

// ChunkContext holds short snippets of the neighbouring chunks.
type ChunkContext struct {
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// Chunk is the atomic retrievable unit produced for a document.
type Chunk struct {
	Content      string        `json:"content"`
	PageNumber   int           `json:"page_number"`
	SectionTitle string        `json:"section_title,omitempty"`
	ChunkIndex   int           `json:"chunk_index"`
	StartOffset  int           `json:"start_offset"`
	EndOffset    int           `json:"end_offset"`
	Category     Category      `json:"category"`
	LocationData *LocationData `json:"location_data,omitempty"`
	ElementType  string        `json:"element_type,omitempty"`
	FontInfo     *FontInfo     `json:"font_info,omitempty"`
	Context      ChunkContext  `json:"context"`
}

// Section is an intermediate span of one page produced by segmentation.
// Start and End are rune offsets into the normalized page text.
type Section struct {
	Content string
	Start   int
	End     int
}

// Glyph is a positioned run of text as drawn on the page, in PDF user
// space (origin bottom-left).
type Glyph struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
	Font     string
}

// Element types recorded on chunks, naming how their page text was read.
const (
	ElementPositionedText = "PositionedText"
	ElementPlainText      = "PlainText"
)

// Page is the extracted content of a single PDF page.
type Page struct {
	Number      int
	Text        string
	Width       float64
	Height      float64
	Glyphs      []Glyph
	ElementType string
}

// Document is the result of extracting a PDF.
type Document struct {
	ID    string
	Pages []Page
}
