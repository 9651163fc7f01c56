package regexp

import "strings"

// pcreOnly lists constructs that RE2/coregex rejects or interprets
// differently, based on pcre2syntax.
//
// Ref: https://pcre2project.github.io/pcre2/doc/pcre2syntax/
var pcreOnly = [...][]string{
	// Tokens and constructs
	{
		// Lookahead/lookbehind assertions (atomic and non-atomic)
		"(?=", "(?!", "(?<=", "(?<!",
		"(*pla:", "(*positive_lookahead:",
		"(*nla:", "(*negative_lookahead:",
		"(*plb:", "(*positive_lookbehind:",
		"(*nlb:", "(*negative_lookbehind:",
		"(?*", "(*napla:", "(*non_atomic_positive_lookahead:",
		"(?<*", "(*naplb:", "(*non_atomic_positive_lookbehind:",
		// Backtracking control verbs
		"(*ACCEPT)", "(*FAIL)", "(*F)", "(*MARK:", "(*:", "(*COMMIT)", "(*PRUNE)", "(*SKIP)", "(*THEN)",
		// Atomic groups
		"(?>", "(*atomic:",
		// Branch reset group
		"(?|",
		// Conditional group
		"(?(",
		// Comment
		"(?#",
		// Recursion/subroutine calls
		"(?R)", "(?P>", "(?&",
	},
	// Escapes and character types
	{
		`\h`, `\H`, // horizontal whitespace
		`\v`, `\V`, // vertical whitespace
		`\R`,         // newline sequence
		`\X`,         // Unicode extended grapheme cluster
		`\K`,         // set reported start of match
		`\e`,         // escape character
		`\o{`,        // octal code
		`\x{`,        // hex code
		`\p{`, `\P{`, // Unicode property escapes (Go supports a subset)
	},
	// Backreferences
	{
		`\g`, `\k<`, `\k'`, `\k{`, `(?P=`,
	},
	// Anchors (Go supports ^, $, \A and \z only)
	{`\Z`, `\G`},
}

// needsPCRE checks if the pattern contains PCRE2-only features.
func needsPCRE(pattern string) bool {
	for _, group := range pcreOnly {
		for _, v := range group {
			if strings.Contains(pattern, v) {
				return true
			}
		}
	}

	// Check for backreferences: \1, \2, ... (Go does not support these)
	escaped := false
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '\\' {
			if !escaped && i+1 < len(pattern) {
				next := pattern[i+1]
				if next >= '1' && next <= '9' {
					return true
				}
			}
			escaped = !escaped
		} else {
			escaped = false
		}
	}

	// Named capturing groups
	//
	// Go accepts (?P<name>...) and (?<name>...), but not (?'name'...).
	return strings.Contains(pattern, "(?'")
}
