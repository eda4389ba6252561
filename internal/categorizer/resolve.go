package categorizer

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"fjacquet/chatledger/internal/models"
)

// maxResolveDistance bounds the edit distance accepted by Resolve.
const maxResolveDistance = 3

// Resolve maps a user-typed category name to a member of the taxonomy of d.
// It tries a case-insensitive exact match, then a unique prefix of at least
// three runes, then the closest name within maxResolveDistance edits.
func (c *Classifier) Resolve(input string, d models.Direction) (string, bool) {
	t := c.tableFor(d)
	if t == nil {
		return "", false
	}
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return "", false
	}

	for _, name := range t.names {
		if strings.ToLower(name) == needle {
			return name, true
		}
	}

	if utf8.RuneCountInString(needle) >= 3 {
		var found []string
		for _, name := range t.names {
			if strings.HasPrefix(strings.ToLower(name), needle) {
				found = append(found, name)
			}
		}
		if len(found) == 1 {
			return found[0], true
		}
	}

	best, bestDist := "", maxResolveDistance+1
	for _, name := range t.names {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(name))
		if dist < bestDist {
			best, bestDist = name, dist
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
