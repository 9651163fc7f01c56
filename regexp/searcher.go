package regexp

import (
	"sort"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Searcher runs repeated searches of one Regexp over one subject. It prepares
// the subject once (byte view for coregex, rune view and offset table for
// regexp2) so that walking a long subject match by match stays linear in the
// number of searches.
//
// A Searcher is not safe for concurrent use; create one per goroutine.
type Searcher struct {
	re   *Regexp
	s    string
	b    []byte
	pcre *regexp2.Regexp

	runes   []rune
	offsets []int // byte offset of each rune, plus len(s)
}

// Searcher prepares s for repeated searches.
func (r *Regexp) Searcher(s string) *Searcher {
	sr := &Searcher{re: r, s: s, pcre: r.pcre}
	if r.core != nil {
		if r.runeSafe == nil || isASCII(s) {
			sr.b = []byte(s)
			return sr
		}
		sr.pcre = r.runeSafe
	}

	sr.runes = make([]rune, 0, utf8.RuneCountInString(s))
	sr.offsets = make([]int, 0, cap(sr.runes)+1)
	for i, c := range s {
		sr.runes = append(sr.runes, c)
		sr.offsets = append(sr.offsets, i)
	}
	sr.offsets = append(sr.offsets, len(s))

	return sr
}

// Len returns the subject length in bytes.
func (sr *Searcher) Len() int {
	return len(sr.s)
}

// FindAt returns the leftmost match that starts at or after byte offset at.
// The text before at stays visible to anchors and lookbehinds.
//
// The result holds index pairs [start0, end0, start1, end1, ...] for the
// whole match and each group; a pair is -1, -1 when the group did not
// participate. A nil result means no match. The error is a runtime failure
// of the engine, such as a regexp2 match timeout.
func (sr *Searcher) FindAt(at int) ([]int, error) {
	if at < 0 || at > len(sr.s) {
		return nil, nil
	}

	if sr.pcre == nil {
		return sr.findCore(at), nil
	}

	return sr.findPCRE(at)
}

func (sr *Searcher) findCore(at int) []int {
	m := sr.re.core.FindSubmatchAt(sr.b, at)
	if m == nil {
		return nil
	}

	n := m.NumCaptures()
	out := make([]int, n*2)
	for i := 0; i < n; i++ {
		idx := m.GroupIndex(i)
		if len(idx) >= 2 && idx[0] >= 0 {
			out[i*2], out[i*2+1] = idx[0], idx[1]
		} else {
			out[i*2], out[i*2+1] = -1, -1
		}
	}

	return out
}

func (sr *Searcher) findPCRE(at int) ([]int, error) {
	m, err := sr.pcre.FindRunesMatchStartingAt(sr.runes, sr.byteToRune(at))
	if err != nil || m == nil {
		return nil, err
	}

	groups := m.Groups()
	out := make([]int, 0, len(groups)*2)
	for _, g := range groups {
		if len(g.Captures) == 0 {
			out = append(out, -1, -1)
			continue
		}

		start, end := sr.runeRangeToByte(g.Index, g.Length)
		out = append(out, start, end)
	}

	return out, nil
}

// byteToRune maps a byte offset to the index of the rune that starts at or
// after it.
func (sr *Searcher) byteToRune(at int) int {
	return sort.SearchInts(sr.offsets, at)
}

func (sr *Searcher) runeRangeToByte(startRune, length int) (int, int) {
	if startRune < 0 || length < 0 {
		return -1, -1
	}

	return sr.runeToByte(startRune), sr.runeToByte(startRune + length)
}

func (sr *Searcher) runeToByte(runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	if runeIndex >= len(sr.offsets) {
		return len(sr.s)
	}

	return sr.offsets[runeIndex]
}
