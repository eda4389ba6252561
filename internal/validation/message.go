package validation

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageRunes is the longest chat message accepted.
const MaxMessageRunes = 1000

// MessageValidator checks raw chat messages.
type MessageValidator struct{}

// ValidateText rejects empty and overly long messages.
func (MessageValidator) ValidateText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return invalid("text", "сообщение не может быть пустым")
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		return invalid("text", "сообщение слишком длинное (максимум %d символов)", MaxMessageRunes)
	}
	return nil
}

// IsCommand reports whether text is a bot command such as /start.
func (MessageValidator) IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}
