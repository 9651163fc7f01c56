// Package segment partitions a subject into highlighted and plain runs.
//
// [Build] turns the ordered match list produced by [match.Extract] into a
// flat sequence of segments that covers the whole subject, so a renderer only
// has to style the segments flagged as matches.
package segment

import (
	"fmt"
	"strings"

	"go.dw1.io/rxlab/match"
)

// Segment is a contiguous slice [Start, End) of the subject. Ordinal is the
// 1-based position of the match a match segment represents, and 0 for plain
// segments.
type Segment struct {
	Text    string `json:"text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Match   bool   `json:"match"`
	Ordinal int    `json:"ordinal,omitempty"`
}

// Build partitions subject around matches.
//
// matches must be in ascending order, pairwise non-overlapping and lie within
// subject with Text equal to the slice they cover; Build panics otherwise.
// Plain segments are never empty. A zero-length match yields an empty match
// segment marking its position. An empty subject without matches yields no
// segments.
func Build(subject string, matches []match.Record) []Segment {
	segs := make([]Segment, 0, 2*len(matches)+1)

	cursor := 0
	for i, m := range matches {
		end := m.End()
		switch {
		case m.Index < cursor:
			panic(fmt.Sprintf("segment: match %d at %d overlaps or precedes offset %d", i+1, m.Index, cursor))
		case end > len(subject):
			panic(fmt.Sprintf("segment: match %d [%d,%d) exceeds subject length %d", i+1, m.Index, end, len(subject)))
		case subject[m.Index:end] != m.Text:
			panic(fmt.Sprintf("segment: match %d text %q differs from subject at [%d,%d)", i+1, m.Text, m.Index, end))
		}

		if m.Index > cursor {
			segs = append(segs, Segment{
				Text:  subject[cursor:m.Index],
				Start: cursor,
				End:   m.Index,
			})
		}

		segs = append(segs, Segment{
			Text:    m.Text,
			Start:   m.Index,
			End:     end,
			Match:   true,
			Ordinal: i + 1,
		})
		cursor = end
	}

	if cursor < len(subject) {
		segs = append(segs, Segment{
			Text:  subject[cursor:],
			Start: cursor,
			End:   len(subject),
		})
	}

	return segs
}

// Join concatenates the segment texts. For the output of Build it returns
// the original subject.
func Join(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}

	return sb.String()
}
