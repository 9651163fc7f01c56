// Package regexp compiles user-supplied patterns with a flag set and selects
// the engine able to run them.
//
// RE2-compatible patterns are parsed with [syntax] and executed by the
// coregex meta engine. When the pattern requires PCRE/Perl features that
// RE2/coregex cannot execute (lookarounds, backreferences, atomic groups and
// the like), the package falls back to [regexp2].
//
// Searches may start at any byte offset of the subject while still seeing
// the text before it, so anchors, word boundaries and lookbehinds behave as
// if the whole subject were scanned. All offsets are byte offsets into the
// subject; regexp2's rune offsets are converted at the boundary. Matches never
// split a UTF-8 code point: coregex patterns that can consume a multi-byte
// character through '.' or a class search non-ASCII subjects with an
// equivalent regexp2 program.
package regexp
