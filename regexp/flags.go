package regexp

import (
	"fmt"
	"regexp/syntax"
	"strings"

	"github.com/dlclark/regexp2"
)

// Flags is a set of matching flags.
type Flags uint8

const (
	// Global reports every non-overlapping match instead of only the first.
	Global Flags = 1 << iota
	// IgnoreCase matches letters case-insensitively.
	IgnoreCase
	// Multiline makes ^ and $ match at line boundaries.
	Multiline
	// DotAll lets . match a newline.
	DotAll
)

// flagChars lists the accepted flag characters in canonical order.
var flagChars = [...]struct {
	c    byte
	flag Flags
}{
	{'g', Global},
	{'i', IgnoreCase},
	{'m', Multiline},
	{'s', DotAll},
}

// FlagError reports an unknown or repeated flag character.
type FlagError struct {
	Flags     string
	Char      rune
	Duplicate bool
}

func (e *FlagError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("regexp: duplicate flag %q in %q", e.Char, e.Flags)
	}

	return fmt.Sprintf("regexp: invalid flag %q in %q", e.Char, e.Flags)
}

// ParseFlags parses a flag string such as "gim". Every character must be one
// of g, i, m or s and may appear at most once.
func ParseFlags(s string) (Flags, error) {
	var flags Flags

	for _, c := range s {
		f, ok := lookupFlag(c)
		if !ok {
			return 0, &FlagError{Flags: s, Char: c}
		}

		if flags&f != 0 {
			return 0, &FlagError{Flags: s, Char: c, Duplicate: true}
		}

		flags |= f
	}

	return flags, nil
}

// MustParseFlags is like ParseFlags but panics on error.
func MustParseFlags(s string) Flags {
	flags, err := ParseFlags(s)
	if err != nil {
		panic(err)
	}

	return flags
}

func lookupFlag(c rune) (Flags, bool) {
	for _, fc := range flagChars {
		if rune(fc.c) == c {
			return fc.flag, true
		}
	}

	return 0, false
}

// Has reports whether all flags in f are set.
func (flags Flags) Has(f Flags) bool {
	return flags&f == f
}

// String renders the set in canonical "gims" order.
func (flags Flags) String() string {
	var sb strings.Builder
	for _, fc := range flagChars {
		if flags.Has(fc.flag) {
			sb.WriteByte(fc.c)
		}
	}

	return sb.String()
}

// syntaxFlags translates the set into regexp/syntax parse flags. syntax.Perl
// already carries OneLine, which is dropped for multiline matching.
func (flags Flags) syntaxFlags() syntax.Flags {
	sf := syntax.Perl
	if flags.Has(IgnoreCase) {
		sf |= syntax.FoldCase
	}
	if flags.Has(Multiline) {
		sf &^= syntax.OneLine
	}
	if flags.Has(DotAll) {
		sf |= syntax.DotNL
	}

	return sf
}

// pcreOptions translates the set into regexp2 options.
func (flags Flags) pcreOptions() regexp2.RegexOptions {
	opts := regexp2.None
	if flags.Has(IgnoreCase) {
		opts |= regexp2.IgnoreCase
	}
	if flags.Has(Multiline) {
		opts |= regexp2.Multiline
	}
	if flags.Has(DotAll) {
		opts |= regexp2.Singleline
	}

	return opts
}
