package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
)

// Bulk import

// ImportRows writes rows into the variant's table in one transaction.
// A row whose natural key matches a stored row replaces the lowest-id match,
// so importing the same file twice leaves the row count unchanged. Any
// failure rolls back the whole batch.
// progress: optional progress container for displaying insertion progress
func (r *Repository) ImportRows(ctx context.Context, v Variant, rows []Row, progress *mpb.Progress) (int, error) {
	if !v.IsValid() {
		return 0, apperrors.Validation("unknown calendar %q", string(v))
	}
	if len(rows) == 0 {
		return 0, nil
	}
	def := v.def()

	var bar *mpb.Bar
	if progress != nil {
		bar = progress.AddBar(int64(len(rows)),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("Importing %s: ", def.table), decor.WC{C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
			),
		)
	}

	keyConds := make([]string, len(def.naturalKey))
	for i, name := range def.naturalKey {
		keyConds[i] = name + " = ?"
	}
	keyWhere := strings.Join(keyConds, " AND ")

	r.log.Info("Starting import",
		zap.String("table", def.table),
		zap.Int("rows", len(rows)),
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			if row.TableName() != def.table {
				return apperrors.Validation("row %d belongs to %s, not %s", i, row.TableName(), def.table)
			}

			var ids []int64
			err := tx.Table(def.table).
				Where(keyWhere, row.naturalKey()...).
				Order("id ASC").
				Limit(1).
				Pluck("id", &ids).Error
			if err != nil {
				return apperrors.Store(fmt.Sprintf("look up row %d in %s", i, def.table), err)
			}

			if len(ids) == 0 {
				setRowID(row, 0)
				err = tx.Table(def.table).Create(row).Error
			} else {
				setRowID(row, ids[0])
				err = tx.Table(def.table).Save(row).Error
			}
			if err != nil {
				return apperrors.Store(fmt.Sprintf("import row %d into %s", i, def.table), err)
			}

			if bar != nil {
				bar.Increment()
			}
		}
		return nil
	})
	if err != nil {
		if bar != nil {
			bar.Abort(false)
		}
		return 0, err
	}

	return len(rows), nil
}
