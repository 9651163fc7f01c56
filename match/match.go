// Package match extracts structured match data for a pattern and a subject.
//
// [Extract] compiles the pattern with its flags, runs it against the subject
// and returns a [Result]: either [Valid] with the ordered match records, or
// [Invalid] with the engine's diagnostic. Global patterns collect every
// non-overlapping match up to a cap that bounds work on patterns matching the
// empty string at every position.
package match

import (
	"time"
	"unicode/utf8"

	"go.dw1.io/rxlab/internal/json"
	"go.dw1.io/rxlab/regexp"
)

// DefaultLimit caps the number of matches collected in global mode.
const DefaultLimit = 1000

// Pattern is a regular expression source with its flag characters. Validity
// is checked by Extract, not on construction.
type Pattern struct {
	Source string `json:"pattern" yaml:"pattern"`
	Flags  string `json:"flags" yaml:"flags"`
}

// Group is one capturing group of a match. Matched is false, and Index -1,
// when the group did not participate in the match; a group that matched the
// empty string has Matched set and an empty Text.
//
// Groups are listed by group number. Patterns compiled by the regexp2 backend
// number named groups after all unnamed ones.
type Group struct {
	Name    string `json:"name,omitempty"`
	Text    string `json:"text"`
	Index   int    `json:"index"`
	Matched bool   `json:"matched"`
}

// Record is a single match. Index is the byte offset of the match in the
// subject.
type Record struct {
	Index  int     `json:"index"`
	Text   string  `json:"text"`
	Groups []Group `json:"groups"`
}

// MarshalJSON encodes Groups as an array even when the pattern has none.
func (r Record) MarshalJSON() ([]byte, error) {
	type record Record

	out := record(r)
	if out.Groups == nil {
		out.Groups = []Group{}
	}

	return json.Marshal(out)
}

// End returns the byte offset just past the match.
func (r Record) End() int {
	return r.Index + len(r.Text)
}

// Result is either [Valid] or [Invalid].
type Result interface {
	isResult()
}

// Valid holds the matches of a successfully compiled pattern. Truncated
// reports that global matching stopped at the match limit.
type Valid struct {
	Matches   []Record
	Truncated bool
}

// Invalid holds the diagnostic of a pattern that failed to compile or run.
type Invalid struct {
	Message string
}

func (Valid) isResult()   {}
func (Invalid) isResult() {}

type options struct {
	limit   int
	timeout time.Duration
}

// Option configures [Extract].
type Option func(*options)

// WithLimit overrides the global-mode match cap. Values <= 0 select
// [DefaultLimit].
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// WithTimeout bounds each search on the backtracking engine. A search that
// runs out of time turns the whole result into [Invalid].
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Extract runs p against subject.
//
// An empty pattern source means no search is active and yields an empty
// [Valid] without compiling. Compile and runtime failures yield [Invalid]
// carrying the engine message unchanged; partial matches are discarded.
func Extract(p Pattern, subject string, opts ...Option) Result {
	if p.Source == "" {
		return Valid{}
	}

	o := options{limit: DefaultLimit}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.limit <= 0 {
		o.limit = DefaultLimit
	}

	flags, err := regexp.ParseFlags(p.Flags)
	if err != nil {
		return Invalid{Message: err.Error()}
	}

	re, err := regexp.CompileFlags(p.Source, flags, regexp.WithTimeout(o.timeout))
	if err != nil {
		return Invalid{Message: err.Error()}
	}

	names := re.SubexpNames()
	sr := re.Searcher(subject)

	if !flags.Has(regexp.Global) {
		loc, err := sr.FindAt(0)
		if err != nil {
			return Invalid{Message: err.Error()}
		}
		if loc == nil {
			return Valid{}
		}

		return Valid{Matches: []Record{newRecord(subject, loc, names)}}
	}

	var (
		matches   []Record
		truncated bool
	)
	for at := 0; ; {
		loc, err := sr.FindAt(at)
		if err != nil {
			return Invalid{Message: err.Error()}
		}
		if loc == nil {
			break
		}
		if len(matches) == o.limit {
			truncated = true
			break
		}

		matches = append(matches, newRecord(subject, loc, names))

		at = loc[1]
		if loc[0] == loc[1] {
			if at >= len(subject) {
				break
			}
			_, size := utf8.DecodeRuneInString(subject[at:])
			at += size
		}
	}

	return Valid{Matches: matches, Truncated: truncated}
}

func newRecord(subject string, loc []int, names []string) Record {
	rec := Record{Index: loc[0], Text: subject[loc[0]:loc[1]]}

	n := len(loc)/2 - 1
	if n <= 0 {
		return rec
	}

	rec.Groups = make([]Group, n)
	for i := range rec.Groups {
		g := Group{Index: -1}
		if i+1 < len(names) {
			g.Name = names[i+1]
		}

		start, end := loc[(i+1)*2], loc[(i+1)*2+1]
		if start >= 0 && end >= 0 {
			g.Index = start
			g.Text = subject[start:end]
			g.Matched = true
		}
		rec.Groups[i] = g
	}

	return rec
}
