package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
	"github.com/palemoky/liturgical-calendar-bot/internal/liturgy"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

// Error log types written by the daily post
const (
	ErrorTypeDailyPost     = "DailyPost"
	ErrorTypeScheduledPost = "ScheduledPost"
)

// Channel is one broadcast destination.
type Channel struct {
	ID      string
	Name    string
	GuildID string
}

// Sender discovers target channels and delivers messages to them.
type Sender interface {
	TargetChannels(ctx context.Context) ([]Channel, error)
	Send(ctx context.Context, ch Channel, content string) error
}

// Composer renders the daily digest.
type Composer interface {
	Compose(ctx context.Context, date time.Time, variants ...database.Variant) ([]liturgy.Message, error)
}

// ErrorLogger persists operator-visible failures.
type ErrorLogger interface {
	AppendErrorLog(ctx context.Context, errorType, message string, additionalInfo *string)
}

// Failure is one message that could not be delivered.
type Failure struct {
	Channel Channel
	Variant database.Variant
}

// Report summarizes one broadcast tick. Sent counts delivered messages.
type Report struct {
	RunID    string
	Channels int
	Sent     int
	Failed   []Failure
}

// Dispatcher sends the General, Tridentine and Martyrology messages to every
// target channel. Sends run one after another; a failed send is logged and
// the remaining sends still go out.
type Dispatcher struct {
	composer Composer
	sender   Sender
	errs     ErrorLogger
	log      *zap.Logger
}

// NewDispatcher wires a dispatcher.
func NewDispatcher(composer Composer, sender Sender, errs ErrorLogger) *Dispatcher {
	return &Dispatcher{
		composer: composer,
		sender:   sender,
		errs:     errs,
		log:      logger.Named("dispatcher"),
	}
}

// Task adapts Run to the scheduler.
func (d *Dispatcher) Task() Task {
	return func(ctx context.Context, tick time.Time) error {
		_, err := d.Run(ctx, tick)
		return err
	}
}

// Run performs one broadcast for now's date.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	log := d.log.With(zap.String("run_id", report.RunID), zap.String("date", now.Format(time.DateOnly)))

	messages, err := d.composer.Compose(ctx, now, database.Variants...)
	if err != nil {
		log.Error("Failed to compose daily post", zap.Error(err))
		d.errs.AppendErrorLog(ctx, ErrorTypeScheduledPost, err.Error(), info(map[string]string{"run_id": report.RunID}))
		return report, err
	}

	channels, err := d.sender.TargetChannels(ctx)
	if err != nil {
		log.Error("Failed to discover target channels", zap.Error(err))
		d.errs.AppendErrorLog(ctx, ErrorTypeScheduledPost, err.Error(), info(map[string]string{"run_id": report.RunID}))
		return report, err
	}
	report.Channels = len(channels)

	if len(channels) == 0 {
		log.Warn("No target channels found")
		return report, nil
	}

	for _, ch := range channels {
		for _, m := range messages {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			if err := d.sender.Send(ctx, ch, m.Content); err != nil {
				d.sendFailed(ctx, log, &report, ch, m.Variant, apperrors.Send(ch.Name, err))
				continue
			}
			report.Sent++
		}
	}

	log.Info("Daily post finished",
		zap.Int("channels", report.Channels),
		zap.Int("sent", report.Sent),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

func (d *Dispatcher) sendFailed(ctx context.Context, log *zap.Logger, report *Report, ch Channel, v database.Variant, err error) {
	report.Failed = append(report.Failed, Failure{Channel: ch, Variant: v})
	log.Error("Daily post failed",
		zap.String("guild_id", ch.GuildID),
		zap.String("channel_id", ch.ID),
		zap.String("channel", ch.Name),
		zap.String("calendar", string(v)),
		zap.Error(err),
	)
	d.errs.AppendErrorLog(ctx, ErrorTypeDailyPost, err.Error(), info(map[string]string{
		"run_id":     report.RunID,
		"guild_id":   ch.GuildID,
		"channel_id": ch.ID,
		"channel":    ch.Name,
		"calendar":   string(v),
	}))
}

func info(fields map[string]string) *string {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}
