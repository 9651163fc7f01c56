package regexp

import (
	"errors"
	"regexp/syntax"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCompileEngineSelection(t *testing.T) {
	corePat := "a+"
	coreRe, err := Compile(corePat)
	if err != nil {
		t.Fatalf("compile core: %v", err)
	}
	if coreRe.core == nil || coreRe.pcre != nil {
		t.Fatalf("expected core backend for %q", corePat)
	}
	if coreRe.Backend() != Core || coreRe.Backend().String() != "coregex" {
		t.Fatalf("Backend core: got %v", coreRe.Backend())
	}

	pcrePat := "(?<=a)b"
	pcreRe, err := Compile(pcrePat)
	if err != nil {
		t.Fatalf("compile pcre: %v", err)
	}
	if pcreRe.pcre == nil || pcreRe.core != nil {
		t.Fatalf("expected regexp2 backend for %q", pcrePat)
	}
	if pcreRe.Backend() != PCRE || pcreRe.Backend().String() != "regexp2" {
		t.Fatalf("Backend pcre: got %v", pcreRe.Backend())
	}
}

func TestNeedsPCRE(t *testing.T) {
	tests := map[string]bool{
		`a+`:             false,
		`(?P<y>\d{4})`:   false,
		`(?<y>\d{4})`:    false,
		`\Aabc\z`:        false,
		`\\1`:            false,
		`(\w+)\s+\1`:     true,
		`(?'y'\d{4})`:    true,
		`foo(?!bar)`:     true,
		`(?>a|ab)c`:      true,
		`\k<name>`:       true,
		`x\Z`:            true,
		`(?#comment)abc`: true,
	}

	for pattern, want := range tests {
		if got := needsPCRE(pattern); got != want {
			t.Fatalf("needsPCRE(%q): got %v want %v", pattern, got, want)
		}
	}
}

func TestCompileErrorIsEngineDiagnostic(t *testing.T) {
	_, err := Compile("(")
	if err == nil {
		t.Fatal("expected error for unbalanced group")
	}
	if !strings.Contains(err.Error(), "missing closing )") {
		t.Fatalf("core diagnostic: got %q", err.Error())
	}

	_, err = Compile("(?<=a")
	if err == nil {
		t.Fatal("expected error for unterminated lookbehind")
	}
	if err.Error() == "" {
		t.Fatal("expected non-empty pcre diagnostic")
	}
}

func TestCompileFlags(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   string
		subject string
		want    bool
	}{
		{name: "caseSensitive", pattern: "abc", subject: "ABC", want: false},
		{name: "ignoreCase", pattern: "abc", flags: "i", subject: "ABC", want: true},
		{name: "oneLine", pattern: "^b$", subject: "a\nb\nc", want: false},
		{name: "multiline", pattern: "^b$", flags: "m", subject: "a\nb\nc", want: true},
		{name: "dotNoNewline", pattern: "a.b", subject: "a\nb", want: false},
		{name: "dotAll", pattern: "a.b", flags: "s", subject: "a\nb", want: true},
		{name: "pcreIgnoreCase", pattern: "(?=A)abc", flags: "i", subject: "ABC", want: true},
		{name: "pcreMultiline", pattern: "(?=b)^b$", flags: "m", subject: "a\nb\nc", want: true},
		{name: "pcreDotAll", pattern: "(?=a)a.b", flags: "s", subject: "a\nb", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := CompileFlags(tt.pattern, MustParseFlags(tt.flags))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := re.MatchString(tt.subject); got != tt.want {
				t.Fatalf("MatchString(%q): got %v want %v", tt.subject, got, tt.want)
			}
			if got := re.Flags().String(); got != tt.flags {
				t.Fatalf("Flags: got %q want %q", got, tt.flags)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags("smig")
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if got := flags.String(); got != "gims" {
		t.Fatalf("String: got %q want %q", got, "gims")
	}
	if !flags.Has(Global | DotAll) {
		t.Fatalf("Has: expected global and dotall in %v", flags)
	}

	_, err = ParseFlags("gx")
	var ferr *FlagError
	if !errors.As(err, &ferr) {
		t.Fatalf("ParseFlags invalid: got %v", err)
	}
	if ferr.Char != 'x' || ferr.Duplicate {
		t.Fatalf("FlagError: got %+v", ferr)
	}
	if got, want := err.Error(), `regexp: invalid flag 'x' in "gx"`; got != want {
		t.Fatalf("FlagError message: got %q want %q", got, want)
	}

	_, err = ParseFlags("gg")
	if !errors.As(err, &ferr) || !ferr.Duplicate {
		t.Fatalf("ParseFlags duplicate: got %v", err)
	}
}

func TestSearcherFindAtKeepsContext(t *testing.T) {
	for _, pattern := range []string{`^a`, `(?=a)^a`} {
		re, err := CompileFlags(pattern, Multiline)
		if err != nil {
			t.Fatalf("compile %q: %v", pattern, err)
		}

		sr := re.Searcher("ab\nab")

		got, err := sr.FindAt(1)
		if err != nil {
			t.Fatalf("FindAt %q: %v", pattern, err)
		}
		if diff := cmp.Diff([]int{3, 4}, got); diff != "" {
			t.Fatalf("FindAt %q (-want +got):\n%s", pattern, diff)
		}

		got, err = sr.FindAt(4)
		if err != nil || got != nil {
			t.Fatalf("FindAt %q past last line start: got %v, %v", pattern, got, err)
		}
	}
}

func TestSearcherUnmatchedGroups(t *testing.T) {
	for _, pattern := range []string{`(a)|(b)`, `(?=[ab])(a)|(b)`} {
		re := MustCompile(pattern)

		got, err := re.FindStringSubmatchIndexAt("b", 0)
		if err != nil {
			t.Fatalf("FindStringSubmatchIndexAt %q: %v", pattern, err)
		}
		if diff := cmp.Diff([]int{0, 1, -1, -1, 0, 1}, got); diff != "" {
			t.Fatalf("FindStringSubmatchIndexAt %q (-want +got):\n%s", pattern, diff)
		}
	}
}

func TestPCRELookbehindRuneOffsets(t *testing.T) {
	// Emoji is 4 bytes; ensures rune-to-byte conversion is correct.
	re := MustCompile("(?<=🙂)a")
	sr := re.Searcher("🙂a🙂a")

	first, err := sr.FindAt(0)
	if err != nil {
		t.Fatalf("FindAt first: %v", err)
	}
	if diff := cmp.Diff([]int{4, 5}, first); diff != "" {
		t.Fatalf("FindAt first (-want +got):\n%s", diff)
	}

	second, err := sr.FindAt(first[1])
	if err != nil {
		t.Fatalf("FindAt second: %v", err)
	}
	if diff := cmp.Diff([]int{9, 10}, second); diff != "" {
		t.Fatalf("FindAt second (-want +got):\n%s", diff)
	}
}

func TestPCREBackreference(t *testing.T) {
	re := MustCompile(`(\w+)\s+\1`)

	if re.core != nil {
		t.Fatalf("expected PCRE backend for backreference pattern")
	}

	if !re.MatchString("go go") {
		t.Fatalf("MatchString pcre backref: expected true")
	}

	got, err := re.FindStringSubmatchIndexAt("go go", 0)
	if err != nil {
		t.Fatalf("FindStringSubmatchIndexAt pcre backref: %v", err)
	}
	if diff := cmp.Diff([]int{0, 5, 0, 2}, got); diff != "" {
		t.Fatalf("FindStringSubmatchIndexAt pcre backref (-want +got):\n%s", diff)
	}
}

func TestSubexpNames(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: `(?P<user>\w+)@(\w+)`, want: []string{"", "user", ""}},
		{pattern: `(\w+)(?=@)(?<host>@\w+)`, want: []string{"", "", "host"}},
	}

	for _, tt := range tests {
		re := MustCompile(tt.pattern)
		if got := re.NumSubexp(); got != len(tt.want)-1 {
			t.Fatalf("NumSubexp(%q): got %d want %d", tt.pattern, got, len(tt.want)-1)
		}
		if diff := cmp.Diff(tt.want, re.SubexpNames()); diff != "" {
			t.Fatalf("SubexpNames(%q) (-want +got):\n%s", tt.pattern, diff)
		}
	}
}

func TestPCRETimeout(t *testing.T) {
	re, err := CompileFlags(`^(?=a)(a+)+$`, 0, WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	_, err = re.FindStringSubmatchIndexAt(strings.Repeat("a", 40)+"!", 0)
	if err == nil {
		t.Fatal("expected timeout error for catastrophic backtracking")
	}
}

func TestMatchesMultibyte(t *testing.T) {
	tests := map[string]bool{
		`abc`:     false,
		`é+`:      false,
		`[a-z]\w`: false,
		`(?i)a`:   false,
		`.`:       true,
		`[^a]`:    true,
		`\pL`:     true,
		`(?i)k`:   true,
		`(?i)é`:   true,
		`a(b|.)`:  true,
	}

	for pattern, want := range tests {
		parsed, err := syntax.Parse(pattern, syntax.Perl)
		if err != nil {
			t.Fatalf("parse %q: %v", pattern, err)
		}
		if got := matchesMultibyte(parsed); got != want {
			t.Fatalf("matchesMultibyte(%q): got %v want %v", pattern, got, want)
		}
	}
}

func TestFindAtMultibyteRunes(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   Flags
		subject string
		at      int
		want    []int
	}{
		{name: "dot", pattern: `.`, subject: "é", want: []int{0, 2}},
		{name: "negatedClass", pattern: `[^a]`, subject: "aé", want: []int{1, 3}},
		{name: "twoDotsOneRune", pattern: `..`, subject: "é", want: nil},
		{name: "groupNumbers", pattern: `(a)(?P<x>.)(c)`, subject: "aéc", want: []int{0, 4, 0, 1, 1, 3, 3, 4}},
		{name: "asciiWordBoundary", pattern: `\b.`, subject: "éx", want: []int{2, 3}},
		{name: "foldToKelvin", pattern: `k`, flags: IgnoreCase, subject: "\u212a", want: []int{0, 3}},
		{name: "notSpace", pattern: `\S+`, subject: "aé b", want: []int{0, 3}},
		{name: "repeat", pattern: `[éè]{2}`, subject: "èéx", want: []int{0, 4}},
		{name: "lazy", pattern: `.*?x`, subject: "ééx", want: []int{0, 5}},
		{name: "lineAnchors", pattern: `^.$`, flags: Multiline, subject: "a\né", at: 1, want: []int{2, 4}},
		{name: "asciiSubject", pattern: `.`, subject: "ab", at: 1, want: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := CompileFlags(tt.pattern, tt.flags)
			if err != nil {
				t.Fatalf("compile %q: %v", tt.pattern, err)
			}
			if re.Backend() != Core {
				t.Fatalf("Backend: got %v want %v", re.Backend(), Core)
			}

			got, err := re.Searcher(tt.subject).FindAt(tt.at)
			if err != nil {
				t.Fatalf("FindAt: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("FindAt (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchStringMultibyte(t *testing.T) {
	if MustCompile(`^..$`).MatchString("é") {
		t.Fatal("MatchString: two dots matched a single rune")
	}
	if !MustCompile(`^.$`).MatchString("é") {
		t.Fatal("MatchString: dot did not match a single rune")
	}
}
