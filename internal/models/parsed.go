package models

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ParsedTransaction is the result of running one chat message through the
// extraction pipeline. Absent values are represented by the zero value of
// each field (an invalid NullDecimal, DirectionUnknown, empty strings).
type ParsedTransaction struct {
	Amount          decimal.NullDecimal
	Direction       Direction
	DirectionSource DirectionSource
	Category        string
	Description     string
	Currency        string
	Confidence      float64
	// MultipleAmounts is set when the message carries more than one
	// currency-marked quantity; only the first one is kept in Amount.
	MultipleAmounts bool
	RawText         string
}

// HasAmount reports whether a strictly positive amount was extracted.
func (p ParsedTransaction) HasAmount() bool {
	return p.Amount.Valid && p.Amount.Decimal.IsPositive()
}

// HasDirection reports whether the direction is set, from any source.
func (p ParsedTransaction) HasDirection() bool {
	return p.Direction.IsKnown()
}

// HasCategory reports whether a category was assigned.
func (p ParsedTransaction) HasCategory() bool {
	return p.Category != ""
}

// HasDescription reports whether the description carries more than two runes.
func (p ParsedTransaction) HasDescription() bool {
	return utf8.RuneCountInString(p.Description) > 2
}

// AmountString renders the amount with two fractional digits, or "" if absent.
func (p ParsedTransaction) AmountString() string {
	if !p.HasAmount() {
		return ""
	}
	return p.Amount.Decimal.StringFixed(2)
}
