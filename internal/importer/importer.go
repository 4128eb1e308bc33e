// Package importer loads calendar JSON files into the entry store.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	"github.com/palemoky/liturgical-calendar-bot/internal/loader"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

// Store is the part of the entry store the importer writes to
type Store interface {
	ImportRows(ctx context.Context, v database.Variant, rows []database.Row, progress *mpb.Progress) (int, error)
	CountEntries(ctx context.Context, v database.Variant) (int64, error)
}

// Result reports the outcome of importing one file
type Result struct {
	Variant database.Variant `json:"calendar"`
	Path    string           `json:"path"`
	Success bool             `json:"success"`
	Count   int              `json:"count,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Importer imports files one transaction at a time
type Importer struct {
	store    Store
	progress *mpb.Progress
	log      *zap.Logger
}

// New creates an importer. progress may be nil to disable progress bars.
func New(store Store, progress *mpb.Progress) *Importer {
	return &Importer{
		store:    store,
		progress: progress,
		log:      logger.Named("importer"),
	}
}

// Import loads path into v's table. Either every entry is written or none is.
func (i *Importer) Import(ctx context.Context, path string, v database.Variant) Result {
	res := Result{Variant: v, Path: path}

	rows, err := loader.LoadFile(path, v)
	if err != nil {
		return i.failed(res, err)
	}

	n, err := i.store.ImportRows(ctx, v, rows, i.progress)
	if err != nil {
		return i.failed(res, err)
	}

	res.Success = true
	res.Count = n
	i.log.Info("Imported entries",
		zap.String("table", v.Table()),
		zap.String("path", path),
		zap.Int("count", n),
	)
	return res
}

func (i *Importer) failed(res Result, err error) Result {
	res.Error = err.Error()
	i.log.Error("Import failed",
		zap.String("table", res.Variant.Table()),
		zap.String("path", res.Path),
		zap.Error(err),
	)
	return res
}

// ImportSamples imports <table>_sample.json for every calendar found in
// dir. A failing file does not stop the others.
func (i *Importer) ImportSamples(ctx context.Context, dir string) []Result {
	results := make([]Result, 0, len(database.Variants))
	for _, v := range database.Variants {
		results = append(results, i.Import(ctx, loader.SampleFile(dir, v), v))
	}
	return results
}

// Stat is the row count of one calendar table
type Stat struct {
	Variant database.Variant
	Count   int64
}

// Stats counts the rows of every calendar table
func (i *Importer) Stats(ctx context.Context) ([]Stat, error) {
	stats := make([]Stat, 0, len(database.Variants))
	for _, v := range database.Variants {
		n, err := i.store.CountEntries(ctx, v)
		if err != nil {
			return nil, err
		}
		stats = append(stats, Stat{Variant: v, Count: n})
	}
	return stats, nil
}

func ptr[T any](v T) *T { return &v }

// Templates returns one example entry per calendar, in the import format.
func Templates() map[database.Variant][]database.Row {
	return map[database.Variant][]database.Row{
		database.VariantGeneral: {
			&database.GeneralCalendarEntry{
				Month:          1,
				Day:            1,
				Celebration:    "Solemnity of Mary, Mother of God",
				Rank:           "Solemnity",
				Color:          ptr("White"),
				ProperText:     ptr("Sample proper text"),
				YearIntroduced: ptr(1970),
			},
		},
		database.VariantTridentine: {
			&database.TridentineCalendarEntry{
				Month:       1,
				Day:         1,
				Celebration: "The Circumcision of Our Lord",
				Rank:        "Double of the Second Class",
				Color:       ptr("White"),
				ProperText:  ptr("Sample proper text"),
			},
		},
		database.VariantMartyrology: {
			&database.MartyrologyEntry{
				Month:       1,
				Day:         1,
				Description: "Sample entry for Roman Martyrology",
				SourceText:  ptr("Source text reference"),
			},
		},
	}
}

// WriteTemplates writes <table>_template.json for every calendar into dir
// and returns the written paths.
func WriteTemplates(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}

	templates := Templates()
	paths := make([]string, 0, len(database.Variants))
	for _, v := range database.Variants {
		data, err := json.MarshalIndent(templates[v], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s template: %w", v.Table(), err)
		}

		path := loader.TemplateFile(dir, v)
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
