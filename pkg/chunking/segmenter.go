package chunking

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	clauseMarker      = regexp.MustCompile(`\(\d+\)`)
	leadingMarker     = regexp.MustCompile(`^\(\d+\)`)
	paragraphBoundary = regexp.MustCompile(`\n[ \t]*\n`)
)

// Segmenter splits normalized page text into sections on numbered-clause
// markers and piece length. Text between numbered clauses is one unit: it
// stands alone when it has enough words, otherwise it is folded into the
// section before it.
type Segmenter struct {
	maxChunkSize    int
	minSectionWords int
}

func NewSegmenter(cfg Config) *Segmenter {
	cfg = cfg.withDefaults()
	return &Segmenter{
		maxChunkSize:    cfg.MaxChunkSize,
		minSectionWords: cfg.MinSectionWords,
	}
}

// span is a half-open byte range of the page text.
type span struct {
	start, end int
}

// Segment returns the sections of text in reading order. Section offsets are
// rune positions into text.
func (s *Segmenter) Segment(text string) []Section {
	var sections []Section

	for _, piece := range splitBeforeMarkers(text) {
		piece = trimSpan(text, piece)
		if piece.start >= piece.end {
			continue
		}
		content := text[piece.start:piece.end]

		if leadingMarker.MatchString(content) {
			if utf8.RuneCountInString(content) <= s.maxChunkSize {
				sections = append(sections, newSection(text, piece))
				continue
			}
			for _, sub := range splitNumbered(text, piece) {
				sections = append(sections, newSection(text, sub))
			}
			continue
		}

		if len(strings.Fields(content)) > s.minSectionWords || len(sections) == 0 {
			sections = append(sections, newSection(text, piece))
			continue
		}
		last := &sections[len(sections)-1]
		last.Content += "\n" + content
		last.End = runeOffset(text, piece.end)
	}

	return sections
}

// splitBeforeMarkers cuts text immediately before every clause marker so
// each piece keeps its own marker.
func splitBeforeMarkers(text string) []span {
	var pieces []span
	start := 0
	for _, loc := range clauseMarker.FindAllStringIndex(text, -1) {
		if loc[0] > start {
			pieces = append(pieces, span{start, loc[0]})
		}
		start = loc[0]
	}
	return append(pieces, span{start, len(text)})
}

// splitNumbered re-splits an oversized numbered piece on blank lines. The
// first sub-piece is widened back to the piece start so the marker stays
// attached to it and to nothing else.
func splitNumbered(text string, piece span) []span {
	subs := paragraphs(text, piece)
	if len(subs) > 0 {
		subs[0].start = piece.start
	}
	return subs
}

// paragraphs returns the trimmed, non-empty blank-line separated spans of
// a piece.
func paragraphs(text string, piece span) []span {
	var subs []span
	start := piece.start
	for _, loc := range paragraphBoundary.FindAllStringIndex(text[piece.start:piece.end], -1) {
		subs = appendTrimmed(subs, text, span{start, piece.start + loc[0]})
		start = piece.start + loc[1]
	}
	return appendTrimmed(subs, text, span{start, piece.end})
}

func appendTrimmed(subs []span, text string, sp span) []span {
	sp = trimSpan(text, sp)
	if sp.start >= sp.end {
		return subs
	}
	return append(subs, sp)
}

func trimSpan(text string, sp span) span {
	raw := text[sp.start:sp.end]
	trimmedLeft := strings.TrimLeft(raw, " \t\r\n")
	sp.start += len(raw) - len(trimmedLeft)
	sp.end = sp.start + len(strings.TrimRight(trimmedLeft, " \t\r\n"))
	return sp
}

func newSection(text string, sp span) Section {
	return Section{
		Content: text[sp.start:sp.end],
		Start:   runeOffset(text, sp.start),
		End:     runeOffset(text, sp.end),
	}
}

func runeOffset(text string, byteIdx int) int {
	return utf8.RuneCountInString(text[:byteIdx])
}
