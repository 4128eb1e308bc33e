// Package liturgy looks up calendar entries for a date and renders them as
// chat messages.
package liturgy

import (
	"context"
	"time"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
)

// Finder is the store query the lookup service depends on
type Finder interface {
	FindByDate(ctx context.Context, v database.Variant, month, day int) ([]database.Entry, error)
}

// Service translates (variant, date) pairs into store queries
type Service struct {
	store Finder
}

// NewService creates a lookup service over store
func NewService(store Finder) *Service {
	return &Service{store: store}
}

// Lookup returns the entries stored for date's month and day. The date is
// read in its own location; time.Month is already 1-based.
func (s *Service) Lookup(ctx context.Context, v database.Variant, date time.Time) ([]database.Entry, error) {
	return s.store.FindByDate(ctx, v, int(date.Month()), date.Day())
}

// Render looks up and formats one calendar for date
func (s *Service) Render(ctx context.Context, v database.Variant, date time.Time) (string, error) {
	entries, err := s.Lookup(ctx, v, date)
	if err != nil {
		return "", err
	}
	return FormatMessage(entries, date, v), nil
}

// Message is one formatted calendar ready to send
type Message struct {
	Variant database.Variant
	Content string
}

// Compose renders every variant in order for date. It fails on the first
// lookup error so a broadcast never goes out half-populated.
func (s *Service) Compose(ctx context.Context, date time.Time, variants ...database.Variant) ([]Message, error) {
	if len(variants) == 0 {
		variants = database.Variants
	}

	messages := make([]Message, 0, len(variants))
	for _, v := range variants {
		content, err := s.Render(ctx, v, date)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message{Variant: v, Content: content})
	}
	return messages, nil
}
