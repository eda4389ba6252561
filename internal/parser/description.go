package parser

import (
	"strings"
	"unicode/utf8"

	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/textutils"
)

const minDescriptionRunes = 2

// DescriptionCleaner reduces a message to the words that describe what the
// money was for.
type DescriptionCleaner struct {
	amounts    *AmountExtractor
	directions *DirectionClassifier
	stopwords  *textutils.WordPattern
}

// NewDescriptionCleaner builds a cleaner. An empty stopword list disables
// stopword removal.
func NewDescriptionCleaner(amounts *AmountExtractor, directions *DirectionClassifier, stopwords []string) (*DescriptionCleaner, error) {
	c := &DescriptionCleaner{amounts: amounts, directions: directions}
	if len(stopwords) > 0 {
		p, err := textutils.CompileWords(stopwords)
		if err != nil {
			return nil, configError("stopwords", err)
		}
		c.stopwords = p
	}
	return c, nil
}

// Clean strips amounts, direction words of d, sign markers and stopwords.
// Results shorter than two runes come back empty.
func (c *DescriptionCleaner) Clean(text string, d models.Direction) string {
	cleaned := c.amounts.Strip(text)
	cleaned = c.directions.Lexicon(d).RemoveAll(cleaned)
	cleaned = signMarker.ReplaceAllString(cleaned, "")
	cleaned = textutils.CollapseSpaces(cleaned)
	if c.stopwords != nil {
		cleaned = c.stopwords.RemoveAll(cleaned)
	}
	cleaned = strings.TrimSpace(textutils.CollapseSpaces(cleaned))

	if utf8.RuneCountInString(cleaned) < minDescriptionRunes {
		return ""
	}
	return cleaned
}
