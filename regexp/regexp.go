package regexp

import (
	"regexp/syntax"
	"strconv"

	"github.com/coregx/coregex/meta"
	"github.com/dlclark/regexp2"
)

// Backend identifies the engine a Regexp was compiled with.
type Backend uint8

const (
	// Core is the coregex meta engine (RE2 syntax, linear time).
	Core Backend = iota
	// PCRE is regexp2 (Perl/PCRE syntax, backtracking).
	PCRE
)

func (b Backend) String() string {
	switch b {
	case Core:
		return "coregex"
	case PCRE:
		return "regexp2"
	default:
		return "backend(" + strconv.Itoa(int(b)) + ")"
	}
}

// Regexp is a compiled regular expression that delegates to either coregex
// (fast, RE2-compatible) or regexp2 (PCRE-compatible) depending on the
// pattern features detected at compile time.
//
// A Regexp is safe for concurrent use.
type Regexp struct {
	pattern string
	flags   Flags
	core    *meta.Engine
	pcre    *regexp2.Regexp

	// runeSafe runs core patterns that can match a multi-byte character
	// through a class or '.' when the subject is not ASCII.
	runeSafe *regexp2.Regexp
}

// Compile parses a regular expression without flags. This mirrors
// regexp.Compile.
func Compile(pattern string) (*Regexp, error) {
	return CompileFlags(pattern, 0)
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return re
}

// CompileFlags parses pattern with the given flags. Patterns that require
// PCRE/Perl-only features (detected by needsPCRE) are compiled with regexp2;
// everything else is parsed with regexp/syntax and compiled by coregex.
//
// The returned error is the engine's own diagnostic. The Global flag does not
// change compilation; it is kept so callers can read it back with Flags.
func CompileFlags(pattern string, flags Flags, opts ...Option) (*Regexp, error) {
	o := newOptions(opts)

	if needsPCRE(pattern) {
		re, err := regexp2.Compile(pattern, flags.pcreOptions())
		if err != nil {
			return nil, err
		}
		if o.timeout > 0 {
			re.MatchTimeout = o.timeout
		}

		return &Regexp{pattern: pattern, flags: flags, pcre: re}, nil
	}

	parsed, err := syntax.Parse(pattern, flags.syntaxFlags())
	if err != nil {
		return nil, err
	}

	re := &Regexp{pattern: pattern, flags: flags}
	if matchesMultibyte(parsed) {
		re.runeSafe, err = compileRuneSafe(parsed, o)
		if err != nil {
			return nil, err
		}
	}

	re.core, err = meta.CompileRegexp(parsed, meta.DefaultConfig())
	if err != nil {
		return nil, err
	}

	return re, nil
}

// String returns the source pattern used to compile the Regexp.
func (r *Regexp) String() string {
	return r.pattern
}

// Flags returns the flags the Regexp was compiled with.
func (r *Regexp) Flags() Flags {
	return r.flags
}

// Backend reports which engine executes the Regexp.
func (r *Regexp) Backend() Backend {
	if r.core != nil {
		return Core
	}

	return PCRE
}

// MatchString reports whether the string s contains any match of the Regexp.
func (r *Regexp) MatchString(s string) bool {
	if r.core != nil && (r.runeSafe == nil || isASCII(s)) {
		return r.core.IsMatch([]byte(s))
	}

	loc, err := r.Searcher(s).FindAt(0)
	return err == nil && loc != nil
}

// FindStringSubmatchIndexAt is a shorthand for a one-off search on a fresh
// [Searcher]. Prefer Searcher when searching the same subject repeatedly.
func (r *Regexp) FindStringSubmatchIndexAt(s string, at int) ([]int, error) {
	return r.Searcher(s).FindAt(at)
}

// NumSubexp returns the number of parenthesized subexpressions in this Regexp.
func (r *Regexp) NumSubexp() int {
	if r.core != nil {
		// NumCaptures includes the implicit group 0.
		return r.core.NumCaptures() - 1
	}

	return maxGroupNumber(r.pcre)
}

// SubexpNames returns the names of the parenthesized subexpressions in this
// Regexp. The name for the first sub-expression is names[1]; unnamed groups
// have an empty name on both backends.
func (r *Regexp) SubexpNames() []string {
	if r.core != nil {
		return r.core.SubexpNames()
	}

	max := maxGroupNumber(r.pcre)
	names := make([]string, max+1)
	for i := 1; i <= max; i++ {
		name := r.pcre.GroupNameFromNumber(i)
		// regexp2 names unnamed groups after their number.
		if name == strconv.Itoa(i) {
			name = ""
		}
		names[i] = name
	}

	return names
}

func maxGroupNumber(re *regexp2.Regexp) int {
	max := 0
	for _, v := range re.GetGroupNumbers() {
		if v > max {
			max = v
		}
	}

	return max
}
