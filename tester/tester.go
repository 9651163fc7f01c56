// Package tester runs the whole pattern -> matches -> segments pipeline the
// way an interactive regex tester does on every input change.
package tester

import (
	"go.dw1.io/rxlab/internal/json"
	"go.dw1.io/rxlab/match"
	"go.dw1.io/rxlab/segment"
)

// Report is the outcome of one evaluation.
//
// Segments is only populated for a valid result of a non-empty pattern; an
// invalid pattern skips segmentation entirely so the caller can show the
// diagnostic next to the unhighlighted subject.
type Report struct {
	Pattern  match.Pattern
	Subject  string
	Result   match.Result
	Segments []segment.Segment
}

// Evaluate extracts matches of p in subject and, on success, partitions the
// subject for display.
func Evaluate(p match.Pattern, subject string, opts ...match.Option) Report {
	r := Report{
		Pattern: p,
		Subject: subject,
		Result:  match.Extract(p, subject, opts...),
	}

	if v, ok := r.Result.(match.Valid); ok && p.Source != "" {
		r.Segments = segment.Build(subject, v.Matches)
	}

	return r
}

// Active reports whether a search was requested at all.
func (r Report) Active() bool {
	return r.Pattern.Source != ""
}

// Valid reports whether the pattern compiled and ran.
func (r Report) Valid() bool {
	_, ok := r.Result.(match.Valid)
	return ok
}

// Count returns the number of matches, 0 for an invalid pattern.
func (r Report) Count() int {
	if v, ok := r.Result.(match.Valid); ok {
		return len(v.Matches)
	}

	return 0
}

// Diagnostic returns the message of an invalid pattern, or "".
func (r Report) Diagnostic() string {
	if inv, ok := r.Result.(match.Invalid); ok {
		return inv.Message
	}

	return ""
}

type reportJSON struct {
	Pattern   string            `json:"pattern"`
	Flags     string            `json:"flags"`
	Valid     bool              `json:"valid"`
	Error     string            `json:"error,omitempty"`
	Count     int               `json:"count"`
	Truncated bool              `json:"truncated"`
	Matches   []match.Record    `json:"matches"`
	Segments  []segment.Segment `json:"segments"`
}

// MarshalJSON encodes the report as a flat object. Matches and segments are
// always arrays, possibly empty.
func (r Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Pattern:  r.Pattern.Source,
		Flags:    r.Pattern.Flags,
		Matches:  []match.Record{},
		Segments: []segment.Segment{},
	}

	switch res := r.Result.(type) {
	case match.Valid:
		out.Valid = true
		out.Count = len(res.Matches)
		out.Truncated = res.Truncated
		if res.Matches != nil {
			out.Matches = res.Matches
		}
	case match.Invalid:
		out.Error = res.Message
	}
	if r.Segments != nil {
		out.Segments = r.Segments
	}

	return json.Marshal(out)
}
