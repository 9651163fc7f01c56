package regexp

import (
	"regexp/syntax"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// coregex v0.10 compiles '.' and non-ASCII classes as byte ranges, so they
// can match a single byte of a multi-byte character. Patterns containing such
// a construct carry a regexp2 program translated from the same parse tree;
// searches over non-ASCII subjects use it instead of coregex.

const (
	asciiWord   = `[0-9A-Za-z_]`
	wordBound   = `(?:(?<=` + asciiWord + `)(?!` + asciiWord + `)|(?<!` + asciiWord + `)(?=` + asciiWord + `))`
	noWordBound = `(?:(?<=` + asciiWord + `)(?=` + asciiWord + `)|(?<!` + asciiWord + `)(?!` + asciiWord + `))`
)

// matchesMultibyte reports whether re has a construct that can consume a
// non-ASCII rune other than a literal spelled out in the pattern.
func matchesMultibyte(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return true
	case syntax.OpCharClass:
		return len(re.Rune) > 0 && re.Rune[len(re.Rune)-1] >= utf8.RuneSelf
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			for _, r := range re.Rune {
				if orbit := foldOrbit(r); len(orbit) > 1 && slices.ContainsFunc(orbit, isWide) {
					return true
				}
			}
		}
	}

	return slices.ContainsFunc(re.Sub, matchesMultibyte)
}

func isWide(r rune) bool {
	return r >= utf8.RuneSelf
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

// compileRuneSafe translates re into regexp2 syntax with RE2 semantics: ASCII
// word boundaries, Go case folding and every capture explicitly numbered so
// group numbers line up with coregex.
func compileRuneSafe(re *syntax.Regexp, o options) (*regexp2.Regexp, error) {
	var sb strings.Builder
	writeNode(&sb, re)

	prog, err := regexp2.Compile(sb.String(), regexp2.None)
	if err != nil {
		return nil, err
	}
	if o.timeout > 0 {
		prog.MatchTimeout = o.timeout
	}

	return prog, nil
}

func writeNode(sb *strings.Builder, re *syntax.Regexp) {
	switch re.Op {
	case syntax.OpNoMatch:
		sb.WriteString(`(?!)`)
	case syntax.OpEmptyMatch:
		sb.WriteString(`(?:)`)
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if re.Flags&syntax.FoldCase != 0 {
				if orbit := foldOrbit(r); len(orbit) > 1 {
					writeClass(sb, orbitRanges(orbit))
					continue
				}
			}
			writeLiteral(sb, r)
		}
	case syntax.OpCharClass:
		writeClass(sb, re.Rune)
	case syntax.OpAnyCharNotNL:
		sb.WriteString(`[^\n]`)
	case syntax.OpAnyChar:
		sb.WriteString(`[\s\S]`)
	case syntax.OpBeginLine:
		sb.WriteString(`(?m:^)`)
	case syntax.OpEndLine:
		sb.WriteString(`(?m:$)`)
	case syntax.OpBeginText:
		sb.WriteString(`\A`)
	case syntax.OpEndText:
		sb.WriteString(`\z`)
	case syntax.OpWordBoundary:
		sb.WriteString(wordBound)
	case syntax.OpNoWordBoundary:
		sb.WriteString(noWordBound)
	case syntax.OpCapture:
		sb.WriteString(`(?<` + strconv.Itoa(re.Cap) + `>`)
		writeNode(sb, re.Sub[0])
		sb.WriteByte(')')
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		sb.WriteString(`(?:`)
		writeNode(sb, re.Sub[0])
		sb.WriteByte(')')
		writeQuantifier(sb, re)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			writeNode(sb, sub)
		}
	case syntax.OpAlternate:
		sb.WriteString(`(?:`)
		for i, sub := range re.Sub {
			if i > 0 {
				sb.WriteByte('|')
			}
			writeNode(sb, sub)
		}
		sb.WriteByte(')')
	}
}

func writeQuantifier(sb *strings.Builder, re *syntax.Regexp) {
	switch re.Op {
	case syntax.OpStar:
		sb.WriteByte('*')
	case syntax.OpPlus:
		sb.WriteByte('+')
	case syntax.OpQuest:
		sb.WriteByte('?')
	case syntax.OpRepeat:
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(re.Min))
		switch {
		case re.Max < 0:
			sb.WriteByte(',')
		case re.Max != re.Min:
			sb.WriteByte(',')
			sb.WriteString(strconv.Itoa(re.Max))
		}
		sb.WriteByte('}')
	}

	if re.Flags&syntax.NonGreedy != 0 {
		sb.WriteByte('?')
	}
}

func writeLiteral(sb *strings.Builder, r rune) {
	switch {
	case r < 0x20 || r == 0x7f:
		writeEscapedRune(sb, r)
	case strings.ContainsRune(`\.+*?()|[]{}^$#`, r):
		sb.WriteByte('\\')
		sb.WriteRune(r)
	default:
		sb.WriteRune(r)
	}
}

// writeClass writes Go's sorted [lo, hi] range pairs as a bracket
// expression. Surrogate endpoints are clamped: they cannot occur in a rune
// slice decoded from a Go string.
func writeClass(sb *strings.Builder, ranges []rune) {
	var body strings.Builder
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo >= 0xd800 && lo <= 0xdfff {
			lo = 0xe000
		}
		if hi >= 0xd800 && hi <= 0xdfff {
			hi = 0xd7ff
		}
		if lo > hi {
			continue
		}

		writeClassRune(&body, lo)
		if hi > lo {
			body.WriteByte('-')
			writeClassRune(&body, hi)
		}
	}

	if body.Len() == 0 {
		sb.WriteString(`(?!)`)
		return
	}

	sb.WriteByte('[')
	sb.WriteString(body.String())
	sb.WriteByte(']')
}

func writeClassRune(sb *strings.Builder, r rune) {
	switch {
	case r < 0x20 || r == 0x7f:
		writeEscapedRune(sb, r)
	case strings.ContainsRune(`\]-^[`, r):
		sb.WriteByte('\\')
		sb.WriteRune(r)
	default:
		sb.WriteRune(r)
	}
}

func writeEscapedRune(sb *strings.Builder, r rune) {
	hex := strconv.FormatInt(int64(r), 16)
	sb.WriteString(`\u` + strings.Repeat("0", 4-len(hex)) + hex)
}

// foldOrbit returns r and every rune it case-folds to, in the order Go's
// matcher treats as equal.
func foldOrbit(r rune) []rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}

	return orbit
}

func orbitRanges(orbit []rune) []rune {
	sorted := slices.Clone(orbit)
	slices.Sort(sorted)

	ranges := make([]rune, 0, 2*len(sorted))
	for _, r := range sorted {
		ranges = append(ranges, r, r)
	}

	return ranges
}
