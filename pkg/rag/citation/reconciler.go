package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	ragcontext "greenregu-be/pkg/rag/context"
)

// marker matches "[0]", "[1,2,3]" and "[ 0 , 5 ]".
var marker = regexp.MustCompile(`\[([0-9,\s]+)\]`)

// Indices returns the distinct integers referenced by citation markers in
// text, ascending. Parts that are not integers are skipped.
func Indices(text string) []int {
	seen := make(map[int]bool)
	for _, m := range marker.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			seen[n] = true
		}
	}

	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Reconcile returns the entries cited anywhere in text, in context order.
// Indices with no matching entry are ignored. Text without markers cites
// nothing.
func Reconcile(text string, entries []ragcontext.Entry) []ragcontext.Entry {
	cited := make(map[int]bool)
	for _, n := range Indices(text) {
		cited[n] = true
	}

	out := make([]ragcontext.Entry, 0, len(cited))
	for _, e := range entries {
		if cited[e.Index] {
			out = append(out, e)
		}
	}
	return out
}
