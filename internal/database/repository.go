package database

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

// RepositoryInterface defines the store operations used by the bot
type RepositoryInterface interface {
	FindByDate(ctx context.Context, v Variant, month, day int) ([]Entry, error)
	Insert(ctx context.Context, v Variant, fields map[string]any) (int64, error)
	PatchField(ctx context.Context, v Variant, id int64, field, value string) (int64, error)
	Columns(ctx context.Context, v Variant) ([]string, error)
	AppendErrorLog(ctx context.Context, errorType, message string, additionalInfo *string)
	RecentErrors(ctx context.Context, limit int) ([]ErrorLog, error)
}

// Repository handles database operations
type Repository struct {
	db  *DB
	log *zap.Logger
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db, log: logger.Named("store")}
}

type findFunc func(tx *gorm.DB) ([]Entry, error)

// findRows decodes rows of one table model and converts them to entries
func findRows[T Row](tx *gorm.DB) ([]Entry, error) {
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToEntry()
	}
	return entries, nil
}

// FindByDate returns every entry of the variant stored for month/day,
// ordered by id. No match yields an empty slice.
func (r *Repository) FindByDate(ctx context.Context, v Variant, month, day int) ([]Entry, error) {
	if !v.IsValid() {
		return nil, apperrors.Validation("unknown calendar %q", string(v))
	}
	def := v.def()

	tx := r.db.WithContext(ctx).
		Table(def.table).
		Where("month = ? AND day = ?", month, day).
		Order("id ASC")

	entries, err := def.find(tx)
	if err != nil {
		return nil, apperrors.Store("find entries in "+def.table, err)
	}
	return entries, nil
}

// Columns returns the live column list of the variant's table, read from
// SQLite metadata on every call.
func (r *Repository) Columns(ctx context.Context, v Variant) ([]string, error) {
	if !v.IsValid() {
		return nil, apperrors.Validation("unknown calendar %q", string(v))
	}

	var cols []string
	err := r.db.WithContext(ctx).
		Raw("SELECT name FROM pragma_table_info(?) ORDER BY cid", v.Table()).
		Scan(&cols).Error
	if err != nil {
		return nil, apperrors.Store("read columns of "+v.Table(), err)
	}
	return cols, nil
}

// Insert writes a new row built from fields and returns its generated id.
// Every key must name a live column other than id; nothing is written otherwise.
func (r *Repository) Insert(ctx context.Context, v Variant, fields map[string]any) (int64, error) {
	cols, err := r.Columns(ctx, v)
	if err != nil {
		return 0, err
	}

	for key := range fields {
		if key == "id" {
			return 0, apperrors.Validation("id is assigned by the store")
		}
		if !slices.Contains(cols, key) {
			return 0, apperrors.Validation("unknown field %q for %s. Valid fields are: %s",
				key, v.Table(), strings.Join(cols, ", "))
		}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return 0, apperrors.Validation("fields are not serializable: %v", err)
	}
	row, err := DecodeRow(v, data)
	if err != nil {
		return 0, err
	}

	if err := r.db.WithContext(ctx).Table(v.Table()).Create(row).Error; err != nil {
		return 0, apperrors.Store("insert into "+v.Table(), err)
	}
	return row.rowID(), nil
}

// DecodeRow decodes one JSON object into the variant's row type and validates it.
// Missing optional fields stay nil; unknown keys are rejected.
func DecodeRow(v Variant, data []byte) (Row, error) {
	return decodeRow(v, data, true)
}

// DecodeImportRow decodes one element of a bulk import file. Only the
// table's own fields are read: id and any other key are ignored.
func DecodeImportRow(v Variant, data []byte) (Row, error) {
	return decodeRow(v, data, false)
}

func decodeRow(v Variant, data []byte, strict bool) (Row, error) {
	if !v.IsValid() {
		return nil, apperrors.Validation("unknown calendar %q", string(v))
	}

	row := NewRow(v)
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(row); err != nil {
		return nil, apperrors.Validation("invalid %s row: %v", v.Table(), err)
	}
	normalizeText(row)
	if err := row.Validate(); err != nil {
		return nil, apperrors.Validation("invalid %s row: %v", v.Table(), err)
	}
	return row, nil
}

// PatchField sets one column of one row. The field is checked against the
// live column list before any statement touches the table. A zero count
// means no row has that id.
func (r *Repository) PatchField(ctx context.Context, v Variant, id int64, field, value string) (int64, error) {
	cols, err := r.Columns(ctx, v)
	if err != nil {
		return 0, err
	}
	if field == "id" || !slices.Contains(cols, field) {
		return 0, apperrors.Validation("invalid field %q for %s", field, v.Table())
	}

	res := r.db.WithContext(ctx).
		Table(v.Table()).
		Where("id = ?", id).
		Update(field, value)
	if res.Error != nil {
		return 0, apperrors.Store("update "+v.Table(), res.Error)
	}
	return res.RowsAffected, nil
}

// CountEntries returns the number of rows in the variant's table
func (r *Repository) CountEntries(ctx context.Context, v Variant) (int64, error) {
	if !v.IsValid() {
		return 0, apperrors.Validation("unknown calendar %q", string(v))
	}
	var count int64
	if err := r.db.WithContext(ctx).Table(v.Table()).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count "+v.Table(), err)
	}
	return count, nil
}

// Ping checks the store connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
