package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	numberPattern = `(\d+(?:[.,]\d{1,2})?)`
	// groupedPattern also accepts thousands separated by a space, a
	// no-break space or a narrow no-break space, as in 1 500 руб. It is only
	// used where a currency marker follows or precedes the number.
	groupedPattern = `(\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)`
	// currencyPattern matches руб with any ending, the ruble sign, rub, and a
	// standalone р or р. that is not the start of another word.
	currencyPattern = `(?:руб\p{L}*\.?|₽|rub\b|р(?:\.|[^\p{L}\p{N}_]|$))`
)

type amountPattern struct {
	name string
	re   *regexp.Regexp
}

// AmountExtractor finds the monetary amount in a message. Patterns are tried
// in priority order and the first strictly positive value wins.
type AmountExtractor struct {
	patterns []amountPattern
	marked   amountPattern
}

// NewAmountExtractor compiles the amount patterns. Verbs are the words that
// may directly precede a bare number, usually both direction lexicons.
func NewAmountExtractor(verbs []string) (*AmountExtractor, error) {
	if len(verbs) == 0 {
		return nil, fmt.Errorf("no verbs for amount patterns")
	}
	quoted := make([]string, 0, len(verbs))
	for _, v := range verbs {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return nil, fmt.Errorf("empty verb in amount patterns")
		}
		quoted = append(quoted, regexp.QuoteMeta(v))
	}
	verb := `(?:` + strings.Join(quoted, "|") + `)`

	sources := []struct{ name, expr string }{
		{"verb_currency", verb + `\s*` + groupedPattern + `\s*` + currencyPattern},
		{"currency", groupedPattern + `\s*` + currencyPattern},
		{"sign_prefix", `₽\s*` + groupedPattern},
		{"verb", verb + `\s*` + numberPattern},
		{"sign_number", `^\s*[+-]\s*` + numberPattern},
		{"leading", `^` + numberPattern},
		{"trailing", numberPattern + `$`},
	}

	e := &AmountExtractor{patterns: make([]amountPattern, 0, len(sources))}
	for _, s := range sources {
		re, err := regexp.Compile(`(?i)` + s.expr)
		if err != nil {
			return nil, fmt.Errorf("compiling %s amount pattern: %w", s.name, err)
		}
		e.patterns = append(e.patterns, amountPattern{name: s.name, re: re})
	}
	e.marked = e.patterns[1]
	return e, nil
}

// Extract returns the first strictly positive amount found in text. Only the
// first whole-number match of each pattern is considered.
func (e *AmountExtractor) Extract(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	for _, p := range e.patterns {
		locs := p.matches(text, 1)
		if len(locs) == 0 {
			continue
		}
		if d, ok := parseAmount(text[locs[0][2]:locs[0][3]]); ok {
			return d, true
		}
	}
	return decimal.Decimal{}, false
}

// CountMarked returns how many currency-marked quantities text contains.
func (e *AmountExtractor) CountMarked(text string) int {
	return len(e.marked.matches(text, -1))
}

// Strip removes every amount pattern match from text, pattern by pattern.
func (e *AmountExtractor) Strip(text string) string {
	for _, p := range e.patterns {
		locs := p.matches(text, -1)
		if len(locs) == 0 {
			continue
		}
		var b strings.Builder
		last := 0
		for _, loc := range locs {
			b.WriteString(text[last:loc[0]])
			last = loc[1]
		}
		b.WriteString(text[last:])
		text = b.String()
	}
	return text
}

// matches returns up to n submatch index slices of p whose number is not cut
// out of a longer digit run. n < 0 means all of them.
func (p amountPattern) matches(text string, n int) [][]int {
	var out [][]int
	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		if !wholeNumber(text, loc[2], loc[3]) {
			continue
		}
		out = append(out, loc)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

// wholeNumber reports whether text[start:end] is not glued to other digits,
// so 99.999 never yields 999 or 99.99.
func wholeNumber(text string, start, end int) bool {
	if start > 0 {
		prev := text[start-1]
		if isDigit(prev) || (isSeparator(prev) && start > 1 && isDigit(text[start-2])) {
			return false
		}
	}
	if end < len(text) {
		next := text[end]
		if isDigit(next) || (isSeparator(next) && end+1 < len(text) && isDigit(text[end+1])) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSeparator(b byte) bool { return b == '.' || b == ',' }

func parseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}
