package database

import (
	"strings"

	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
)

// Variant identifies one of the three calendar traditions served by the bot
type Variant string

const (
	// VariantGeneral is the General Roman Calendar (the "new" calendar)
	VariantGeneral Variant = "new"
	// VariantTridentine is the pre-reform Tridentine calendar
	VariantTridentine Variant = "tridentine"
	// VariantMartyrology is the Roman Martyrology
	VariantMartyrology Variant = "martyrology"
)

// Variants lists every variant in broadcast order
var Variants = []Variant{VariantGeneral, VariantTridentine, VariantMartyrology}

// IsValid checks if the variant is one of the known calendars
func (v Variant) IsValid() bool {
	_, ok := tableDefs[v]
	return ok
}

// Table returns the table backing the variant
func (v Variant) Table() string {
	return v.def().table
}

// DisplayName returns the human-readable calendar name
func (v Variant) DisplayName() string {
	switch v {
	case VariantTridentine:
		return "Tridentine Calendar"
	case VariantMartyrology:
		return "Roman Martyrology"
	default:
		return "General Roman Calendar"
	}
}

// ParseVariant accepts command choice values ("new", "tridentine",
// "martyrology"), a few aliases, and table names.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "new", "general", "gr", "new_calendar":
		return VariantGeneral, nil
	case "tridentine", "old", "tridentine_calendar":
		return VariantTridentine, nil
	case "martyrology", "roman_martyrology":
		return VariantMartyrology, nil
	default:
		return "", apperrors.Validation("Unknown calendar: %s", s)
	}
}

// tableDef is the single place where a variant is mapped to SQL identifiers.
// Identifiers in queries come from here, never from user input.
type tableDef struct {
	table      string
	columns    []string
	naturalKey []string
	newRow     func() Row
	find       findFunc
}

var tableDefs = map[Variant]tableDef{
	VariantGeneral: {
		table:      "new_calendar",
		columns:    []string{"id", "month", "day", "celebration", "rank", "color", "proper_text", "year_introduced"},
		naturalKey: []string{"month", "day", "celebration"},
		newRow:     func() Row { return &GeneralCalendarEntry{} },
		find:       findRows[GeneralCalendarEntry],
	},
	VariantTridentine: {
		table:      "tridentine_calendar",
		columns:    []string{"id", "month", "day", "celebration", "rank", "color", "proper_text"},
		naturalKey: []string{"month", "day", "celebration"},
		newRow:     func() Row { return &TridentineCalendarEntry{} },
		find:       findRows[TridentineCalendarEntry],
	},
	VariantMartyrology: {
		table:      "roman_martyrology",
		columns:    []string{"id", "month", "day", "year", "description", "source_text"},
		naturalKey: []string{"month", "day", "description"},
		newRow:     func() Row { return &MartyrologyEntry{} },
		find:       findRows[MartyrologyEntry],
	},
}

func (v Variant) def() tableDef {
	if s, ok := tableDefs[v]; ok {
		return s
	}
	return tableDefs[VariantGeneral]
}

// SchemaColumns returns the declared column list of the variant's table.
// The live list used for whitelisting comes from Repository.Columns.
func SchemaColumns(v Variant) []string {
	cols := v.def().columns
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// NewRow allocates an empty typed row for the variant
func NewRow(v Variant) Row {
	return v.def().newRow()
}
