// Package textutils provides text matching helpers for Cyrillic and Latin
// free-text messages.
package textutils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonWord matches one rune that cannot be part of a word. Go's \b only knows
// ASCII word characters, so boundaries around Cyrillic words are expressed
// with explicit Unicode classes instead.
const nonWord = `[^\p{L}\p{N}_]`

var spaceRun = regexp.MustCompile(`\s+`)

// Match is one whole-word occurrence inside a text.
type Match struct {
	Start int
	End   int
	Text  string
}

// RuneLen returns the match length in runes.
func (m Match) RuneLen() int {
	return utf8.RuneCountInString(m.Text)
}

// WordPattern is a compiled, case-insensitive alternation of whole words or
// phrases. Alternatives are tried in the order they were given.
type WordPattern struct {
	words []string
	re    *regexp.Regexp
}

// CompileWords builds a WordPattern. Words are lowercased and quoted; an empty
// list or an empty word is an error.
func CompileWords(words []string) (*WordPattern, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("no words to compile")
	}
	quoted := make([]string, 0, len(words))
	lowered := make([]string, 0, len(words))
	for i, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			return nil, fmt.Errorf("word %d is empty", i)
		}
		lowered = append(lowered, w)
		quoted = append(quoted, regexp.QuoteMeta(w))
	}

	re, err := regexp.Compile(`(?i)` + nonWord + `(` + strings.Join(quoted, "|") + `)` + nonWord)
	if err != nil {
		return nil, fmt.Errorf("compiling word pattern: %w", err)
	}
	return &WordPattern{words: lowered, re: re}, nil
}

// MustCompileWords is like CompileWords but panics on error. It is meant for
// package-level tables that are known to be valid.
func MustCompileWords(words ...string) *WordPattern {
	p, err := CompileWords(words)
	if err != nil {
		panic(err)
	}
	return p
}

// Words returns the normalized words the pattern was built from.
func (p *WordPattern) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}

// FindAll returns every non-overlapping whole-word occurrence, left to right.
func (p *WordPattern) FindAll(text string) []Match {
	// Pad so that the text edges count as boundaries, then restart each search
	// on the trailing boundary rune so adjacent words can share it.
	padded := " " + text + " "
	var matches []Match
	pos := 0
	for pos < len(padded) {
		loc := p.re.FindStringSubmatchIndex(padded[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[2], pos+loc[3]
		matches = append(matches, Match{
			Start: start - 1,
			End:   end - 1,
			Text:  padded[start:end],
		})
		pos = end
	}
	return matches
}

// MatchString reports whether text contains at least one of the words.
func (p *WordPattern) MatchString(text string) bool {
	return p.re.MatchString(" " + text + " ")
}

// RemoveAll deletes every whole-word occurrence from text. Surrounding
// whitespace is left alone; callers usually follow with CollapseSpaces.
func (p *WordPattern) RemoveAll(text string) string {
	matches := p.FindAll(text)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.Start])
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// CollapseSpaces replaces every whitespace run with a single space.
func CollapseSpaces(text string) string {
	return spaceRun.ReplaceAllString(text, " ")
}
