package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructText(t *testing.T) {
	tests := []struct {
		name   string
		glyphs []Glyph
		want   string
	}{
		{
			name:   "no glyphs",
			glyphs: nil,
			want:   "",
		},
		{
			name: "word gap becomes space",
			glyphs: []Glyph{
				{Text: "Member", X: 72, Y: 700, W: 40, FontSize: 10},
				{Text: "States", X: 116, Y: 700, W: 35, FontSize: 10},
			},
			want: "Member States",
		},
		{
			name: "adjacent glyphs join",
			glyphs: []Glyph{
				{Text: "Regu", X: 72, Y: 700, W: 20, FontSize: 10},
				{Text: "lation", X: 92, Y: 700, W: 30, FontSize: 10},
			},
			want: "Regulation",
		},
		{
			name: "baseline change starts a line",
			glyphs: []Glyph{
				{Text: "first line", X: 72, Y: 700, W: 50, FontSize: 10},
				{Text: "second line", X: 72, Y: 688, W: 55, FontSize: 10},
			},
			want: "first line\nsecond line",
		},
		{
			name: "large gap starts a paragraph",
			glyphs: []Glyph{
				{Text: "(1) Targets.", X: 72, Y: 700, W: 60, FontSize: 10},
				{Text: "(2) Reports.", X: 72, Y: 660, W: 60, FontSize: 10},
			},
			want: "(1) Targets.\n\n(2) Reports.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconstructText(tt.glyphs))
		})
	}
}

func TestPDFExtractor_RejectsInvalidInput(t *testing.T) {
	_, err := NewPDFExtractor().Extract("doc", []byte("%PDF-1.4 truncated"))

	assert.ErrorIs(t, err, ErrUnreadablePDF)
}
