package database

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row is implemented by the three calendar table models
type Row interface {
	TableName() string
	// Validate checks the fields a row must carry before it is written
	Validate() error
	// Date returns the month and day the row is keyed by
	Date() (month, day int)
	ToEntry() Entry
	rowID() int64
	// naturalKey returns the values of the table's natural key columns, in
	// the order listed by the variant's table definition
	naturalKey() []any
}

// GeneralCalendarEntry represents a General Roman Calendar celebration
type GeneralCalendarEntry struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	Month          int     `gorm:"not null"                 json:"month"`
	Day            int     `gorm:"not null"                 json:"day"`
	Celebration    string  `gorm:"not null"                 json:"celebration"`
	Rank           string  `gorm:"not null"                 json:"rank"`
	Color          *string `                                json:"color"`
	ProperText     *string `                                json:"proper_text"`
	YearIntroduced *int    `                                json:"year_introduced"`
}

// TableName specifies the table name for GeneralCalendarEntry
func (GeneralCalendarEntry) TableName() string {
	return "new_calendar"
}

func (e GeneralCalendarEntry) Validate() error {
	return validateFeast(e.Month, e.Day, e.Celebration, e.Rank)
}

func (e GeneralCalendarEntry) Date() (int, int) { return e.Month, e.Day }
func (e GeneralCalendarEntry) rowID() int64      { return e.ID }

func (e GeneralCalendarEntry) naturalKey() []any {
	return []any{e.Month, e.Day, e.Celebration}
}

func (e GeneralCalendarEntry) ToEntry() Entry {
	return Entry{
		ID:             e.ID,
		Variant:        VariantGeneral,
		Month:          e.Month,
		Day:            e.Day,
		Celebration:    e.Celebration,
		Rank:           e.Rank,
		Color:          e.Color,
		ProperText:     e.ProperText,
		YearIntroduced: e.YearIntroduced,
	}
}

// TridentineCalendarEntry represents a celebration in the pre-1969 calendar
type TridentineCalendarEntry struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	Month       int     `gorm:"not null"                 json:"month"`
	Day         int     `gorm:"not null"                 json:"day"`
	Celebration string  `gorm:"not null"                 json:"celebration"`
	Rank        string  `gorm:"not null"                 json:"rank"`
	Color       *string `                                json:"color"`
	ProperText  *string `                                json:"proper_text"`
}

// TableName specifies the table name for TridentineCalendarEntry
func (TridentineCalendarEntry) TableName() string {
	return "tridentine_calendar"
}

func (e TridentineCalendarEntry) Validate() error {
	return validateFeast(e.Month, e.Day, e.Celebration, e.Rank)
}

func (e TridentineCalendarEntry) Date() (int, int) { return e.Month, e.Day }
func (e TridentineCalendarEntry) rowID() int64      { return e.ID }

func (e TridentineCalendarEntry) naturalKey() []any {
	return []any{e.Month, e.Day, e.Celebration}
}

func (e TridentineCalendarEntry) ToEntry() Entry {
	return Entry{
		ID:          e.ID,
		Variant:     VariantTridentine,
		Month:       e.Month,
		Day:         e.Day,
		Celebration: e.Celebration,
		Rank:        e.Rank,
		Color:       e.Color,
		ProperText:  e.ProperText,
	}
}

// MartyrologyEntry is one notice of the Roman Martyrology.
// A nil Year means the notice applies every year.
type MartyrologyEntry struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	Month       int     `gorm:"not null"                 json:"month"`
	Day         int     `gorm:"not null"                 json:"day"`
	Year        *int    `                                json:"year"`
	Description string  `gorm:"not null"                 json:"description"`
	SourceText  *string `                                json:"source_text"`
}

// TableName specifies the table name for MartyrologyEntry
func (MartyrologyEntry) TableName() string {
	return "roman_martyrology"
}

func (e MartyrologyEntry) Validate() error {
	if err := validateDate(e.Month, e.Day); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("description is required")
	}
	return nil
}

func (e MartyrologyEntry) Date() (int, int) { return e.Month, e.Day }
func (e MartyrologyEntry) rowID() int64      { return e.ID }

func (e MartyrologyEntry) naturalKey() []any {
	return []any{e.Month, e.Day, e.Description}
}

func (e MartyrologyEntry) ToEntry() Entry {
	return Entry{
		ID:          e.ID,
		Variant:     VariantMartyrology,
		Month:       e.Month,
		Day:         e.Day,
		Year:        e.Year,
		Description: e.Description,
		SourceText:  e.SourceText,
	}
}

// Entry is the read view of a row from any calendar table.
// Fields that do not exist in the source table are left empty.
type Entry struct {
	ID      int64   `json:"id"`
	Variant Variant `json:"calendar"`
	Month   int     `json:"month"`
	Day     int     `json:"day"`

	// General and Tridentine
	Celebration    string  `json:"celebration,omitempty"`
	Rank           string  `json:"rank,omitempty"`
	Color          *string `json:"color,omitempty"`
	ProperText     *string `json:"proper_text,omitempty"`
	YearIntroduced *int    `json:"year_introduced,omitempty"`

	// Martyrology
	Year        *int    `json:"year,omitempty"`
	Description string  `json:"description,omitempty"`
	SourceText  *string `json:"source_text,omitempty"`
}

// ErrorLog is one persisted error record
type ErrorLog struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp      int64   `gorm:"not null"                 json:"timestamp"` // epoch milliseconds
	ErrorType      string  `gorm:"not null"                 json:"error_type"`
	ErrorMessage   string  `gorm:"not null"                 json:"error_message"`
	AdditionalInfo *string `                                json:"additional_info,omitempty"`
}

// TableName specifies the table name for ErrorLog
func (ErrorLog) TableName() string {
	return "error_logs"
}

// setRowID points row at an existing id so a save replaces that row
func setRowID(row Row, id int64) {
	switch r := row.(type) {
	case *GeneralCalendarEntry:
		r.ID = id
	case *TridentineCalendarEntry:
		r.ID = id
	case *MartyrologyEntry:
		r.ID = id
	}
}

// normalizeText rewrites every text field of row in Unicode NFC
func normalizeText(row Row) {
	switch r := row.(type) {
	case *GeneralCalendarEntry:
		r.Celebration = norm.NFC.String(r.Celebration)
		r.Rank = norm.NFC.String(r.Rank)
		normalizePtr(r.Color)
		normalizePtr(r.ProperText)
	case *TridentineCalendarEntry:
		r.Celebration = norm.NFC.String(r.Celebration)
		r.Rank = norm.NFC.String(r.Rank)
		normalizePtr(r.Color)
		normalizePtr(r.ProperText)
	case *MartyrologyEntry:
		r.Description = norm.NFC.String(r.Description)
		normalizePtr(r.SourceText)
	}
}

func normalizePtr(s *string) {
	if s != nil {
		*s = norm.NFC.String(*s)
	}
}

// validateDate enforces the column ranges only; Feb 30 is accepted.
func validateDate(month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range 1-12", month)
	}
	if day < 1 || day > 31 {
		return fmt.Errorf("day %d out of range 1-31", day)
	}
	return nil
}

func validateFeast(month, day int, celebration, rank string) error {
	if err := validateDate(month, day); err != nil {
		return err
	}
	if strings.TrimSpace(celebration) == "" {
		return fmt.Errorf("celebration is required")
	}
	if strings.TrimSpace(rank) == "" {
		return fmt.Errorf("rank is required")
	}
	return nil
}
