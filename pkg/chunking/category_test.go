package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionTitleAndCategory(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTitle string
		wantCat   Category
	}{
		{
			name:      "numbered clause",
			content:   "(4) Member States shall report annually on progress towards the targets.",
			wantTitle: "(4) Member States shall report annually on progress towards the targets.",
			wantCat:   CategoryNumberedSection,
		},
		{
			name:      "all caps heading",
			content:   "ANNEX I\nREPORTING OBLIGATIONS",
			wantTitle: "ANNEX I",
			wantCat:   CategoryTitle,
		},
		{
			name:      "numbered all caps clause",
			content:   "(2) FINAL PROVISIONS",
			wantTitle: "(2) FINAL PROVISIONS",
			wantCat:   CategoryTitle,
		},
		{
			name:      "enumerated list",
			content:   "1. Each Member State shall submit a plan to the Commission.",
			wantTitle: "",
			wantCat:   CategoryListItem,
		},
		{
			name:      "multi-line prose",
			content:   "line one of text\nline two of text\nline three of text\nline four of text",
			wantTitle: "",
			wantCat:   CategoryText,
		},
		{
			name:      "plain prose",
			content:   "Plain prose without structure that is reasonably long.",
			wantTitle: "",
			wantCat:   CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := SectionTitle(tt.content)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantCat, Categorize(tt.content, title))
		})
	}
}

func TestSectionTitle_Truncated(t *testing.T) {
	content := "(1) " + strings.Repeat("word ", 40)

	title := SectionTitle(content)

	assert.Len(t, []rune(title), 100)
	assert.True(t, strings.HasPrefix(title, "(1) word"))
}
