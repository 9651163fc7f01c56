// Package render prints evaluation reports to a terminal or as JSON.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go.dw1.io/rxlab/internal/json"
	"go.dw1.io/rxlab/match"
	"go.dw1.io/rxlab/segment"
	"go.dw1.io/rxlab/tester"
)

type options struct {
	color   bool
	details bool
}

// Option configures a [Renderer].
type Option func(*options)

// WithColor styles matches with terminal colours instead of bracket markers.
func WithColor(on bool) Option {
	return func(o *options) {
		o.color = on
	}
}

// WithDetails toggles the per-match listing after the highlighted subject.
func WithDetails(on bool) Option {
	return func(o *options) {
		o.details = on
	}
}

// Renderer writes reports to w.
type Renderer struct {
	w    io.Writer
	opts options

	match lipgloss.Style
	label lipgloss.Style
	fail  lipgloss.Style
	dim   lipgloss.Style
}

// New returns a Renderer writing to w. Details are on and colour is off by
// default.
func New(w io.Writer, opts ...Option) *Renderer {
	o := options{details: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	lr := lipgloss.NewRenderer(w)
	return &Renderer{
		w:     w,
		opts:  o,
		match: lr.NewStyle().Underline(true).Foreground(lipgloss.AdaptiveColor{Light: "#1e3a8a", Dark: "#bfdbfe"}).Background(lipgloss.AdaptiveColor{Light: "#bfdbfe", Dark: "#1e3a8a"}),
		label: lr.NewStyle().Bold(true),
		fail:  lr.NewStyle().Foreground(lipgloss.Color("9")),
		dim:   lr.NewStyle().Faint(true),
	}
}

// Text prints the highlighted subject followed by the match count and, if
// enabled, every match with its groups. An invalid report prints the
// diagnostic followed by the unhighlighted subject.
func (r *Renderer) Text(rep tester.Report) error {
	var sb strings.Builder

	switch res := rep.Result.(type) {
	case match.Invalid:
		sb.WriteString(r.style(r.fail, "error: "+res.Message))
		sb.WriteByte('\n')
		sb.WriteString(rep.Subject)
		ensureNewline(&sb)
	case match.Valid:
		if !rep.Active() {
			sb.WriteString(rep.Subject)
			ensureNewline(&sb)
			break
		}

		r.writeSegments(&sb, rep.Segments)
		ensureNewline(&sb)
		sb.WriteByte('\n')
		sb.WriteString(r.style(r.label, countLine(len(res.Matches))))
		if res.Truncated {
			sb.WriteString(r.style(r.dim, " (limit reached)"))
		}
		sb.WriteByte('\n')

		if r.opts.details {
			for i, m := range res.Matches {
				r.writeRecord(&sb, i+1, m)
			}
		}
	}

	_, err := io.WriteString(r.w, sb.String())
	return err
}

// JSON writes the report as a single JSON document.
func (r *Renderer) JSON(rep tester.Report) error {
	return json.NewEncoder(r.w).Encode(rep)
}

func (r *Renderer) writeSegments(sb *strings.Builder, segs []segment.Segment) {
	for _, s := range segs {
		if !s.Match {
			sb.WriteString(s.Text)
			continue
		}

		if !r.opts.color {
			sb.WriteByte('[')
			sb.WriteString(s.Text)
			sb.WriteByte(']')
			continue
		}

		// Styles pad multi-line blocks, so each line is styled on its own.
		lines := strings.Split(s.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(r.match.Render(line))
			}
		}
	}
}

func (r *Renderer) writeRecord(sb *strings.Builder, ordinal int, m match.Record) {
	fmt.Fprintf(sb, "%s @%d: %s\n", r.style(r.label, "Match "+strconv.Itoa(ordinal)), m.Index, strconv.Quote(m.Text))

	for i, g := range m.Groups {
		name := strconv.Itoa(i + 1)
		if g.Name != "" {
			name += " (" + g.Name + ")"
		}

		value := r.style(r.dim, "<unmatched>")
		if g.Matched {
			value = strconv.Quote(g.Text)
		}
		fmt.Fprintf(sb, "  group %s: %s\n", name, value)
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.opts.color {
		return text
	}

	return s.Render(text)
}

func countLine(n int) string {
	if n == 1 {
		return "1 match"
	}

	return strconv.Itoa(n) + " matches"
}

func ensureNewline(sb *strings.Builder) {
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteByte('\n')
	}
}
