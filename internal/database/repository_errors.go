package database

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
)

// Error log operations

const defaultErrorLimit = 10

// AppendErrorLog records an error row. It never fails the caller: a write
// failure is reported through the process logger and dropped.
func (r *Repository) AppendErrorLog(ctx context.Context, errorType, message string, additionalInfo *string) {
	record := ErrorLog{
		Timestamp:      time.Now().UnixMilli(),
		ErrorType:      errorType,
		ErrorMessage:   message,
		AdditionalInfo: additionalInfo,
	}

	// the row is still written when the triggering request was cancelled
	err := r.db.WithContext(context.WithoutCancel(ctx)).Create(&record).Error
	if err != nil {
		r.log.Warn("Failed to write error log",
			zap.String("error_type", errorType),
			zap.String("error_message", message),
			zap.Error(err),
		)
	}
}

// RecentErrors returns the newest error rows first
func (r *Repository) RecentErrors(ctx context.Context, limit int) ([]ErrorLog, error) {
	if limit <= 0 {
		limit = defaultErrorLimit
	}

	var logs []ErrorLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, apperrors.Store("read error logs", err)
	}
	return logs, nil
}

// CountErrors returns the number of stored error rows
func (r *Repository) CountErrors(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ErrorLog{}).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count error logs", err)
	}
	return count, nil
}
