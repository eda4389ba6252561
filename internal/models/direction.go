// Package models provides the data structures shared by the parser, the
// ledger store and the ingest layer.
package models

import "strings"

// Direction tells whether money leaves (expense) or enters (income) the
// tracked account. The zero value means the direction is unknown.
type Direction string

const (
	DirectionUnknown Direction = ""
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// String returns the ledger spelling of the direction.
func (d Direction) String() string {
	if d == DirectionUnknown {
		return "unknown"
	}
	return string(d)
}

// IsKnown reports whether d is income or expense.
func (d Direction) IsKnown() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Label returns the Russian label used in chat replies.
func (d Direction) Label() string {
	switch d {
	case DirectionIncome:
		return "доход"
	case DirectionExpense:
		return "расход"
	default:
		return "неизвестно"
	}
}

// ParseDirection accepts ledger values, Russian labels and sign markers.
// Anything else yields DirectionUnknown.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "доход", "+":
		return DirectionIncome
	case "expense", "расход", "-":
		return DirectionExpense
	default:
		return DirectionUnknown
	}
}

// DirectionSource records how a direction was decided.
type DirectionSource string

const (
	SourceNone    DirectionSource = ""
	SourceSign    DirectionSource = "sign"
	SourceKeyword DirectionSource = "keyword"
	// SourceDefault marks a direction supplied by the default-direction
	// policy rather than read from the message.
	SourceDefault DirectionSource = "default"
)

// Inferred reports whether the direction was read from the message itself.
func (s DirectionSource) Inferred() bool {
	return s == SourceSign || s == SourceKeyword
}
