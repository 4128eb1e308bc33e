// Package commands implements the /calendar and /debug slash commands
// independently of the chat transport.
package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	"github.com/palemoky/liturgical-calendar-bot/internal/liturgy"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
	"github.com/palemoky/liturgical-calendar-bot/internal/ratelimit"
)

// Command, subcommand and option names as registered with Discord
const (
	CommandCalendar = "calendar"
	CommandDebug    = "debug"

	SubToday      = "today"
	SubDate       = "date"
	SubFixEntry   = "fix_entry"
	SubViewErrors = "view_errors"
	SubAddEntry   = "add_entry"

	OptCalendar = "calendar"
	OptMonth    = "month"
	OptDay      = "day"
	OptID       = "id"
	OptField    = "field"
	OptValue    = "value"
	OptLimit    = "limit"
	OptData     = "data"
)

// Error log types written by command handlers
const (
	ErrorTypeCommandExecution = "CommandExecution"
	ErrorTypeDebugCommand     = "DebugCommand"
)

// Replies that do not depend on input
const (
	MsgRateLimited     = "You're using commands too quickly. Please wait a moment and try again."
	MsgNotAdmin        = "You need administrator permissions to use this command."
	MsgCalendarFailure = "An error occurred while fetching the calendar information."
	MsgDebugFailure    = "An error occurred while executing the debug command."
	MsgInvalidJSON     = "Invalid JSON data provided."
	MsgNoErrors        = "No errors found in the log."
)

// Store is what the command surface needs from the entry store.
type Store interface {
	liturgy.Finder
	Columns(ctx context.Context, v database.Variant) ([]string, error)
	PatchField(ctx context.Context, v database.Variant, id int64, field, value string) (int64, error)
	Insert(ctx context.Context, v database.Variant, fields map[string]any) (int64, error)
	RecentErrors(ctx context.Context, limit int) ([]database.ErrorLog, error)
	AppendErrorLog(ctx context.Context, errorType, message string, additionalInfo *string)
}

// Caller identifies who invoked a command.
type Caller struct {
	UserID string
	// Admin is true when the member holds the Administrator permission or
	// the configured admin role.
	Admin bool
}

// Reply is the text sent back for one invocation.
type Reply struct {
	Content   string
	Ephemeral bool
}

// Options carries parsed option values. Integers are int64, everything else
// is a string.
type Options map[string]any

// String returns the named string option.
func (o Options) String(name string) (string, bool) {
	s, ok := o[name].(string)
	return s, ok
}

// Int returns the named integer option.
func (o Options) Int(name string) (int64, bool) {
	switch n := o[name].(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// Invocation is one slash command call.
type Invocation struct {
	Command    string
	Subcommand string
	Options    Options
}

// Ephemeral reports whether the reply should only be visible to the caller.
func (inv Invocation) Ephemeral() bool {
	return inv.Command == CommandDebug
}

// Handler dispatches invocations.
type Handler struct {
	store   Store
	lookup  *liturgy.Service
	limiter *ratelimit.Limiter
	now     func() time.Time
	log     *zap.Logger
}

// NewHandler creates a command handler. A nil limiter disables rate limiting.
func NewHandler(store Store, limiter *ratelimit.Limiter) *Handler {
	return &Handler{
		store:   store,
		lookup:  liturgy.NewService(store),
		limiter: limiter,
		now:     time.Now,
		log:     logger.Named("commands"),
	}
}

// Handle runs one invocation and returns the reply to send.
func (h *Handler) Handle(ctx context.Context, caller Caller, inv Invocation) Reply {
	if !h.limiter.Allow(caller.UserID) {
		h.log.Debug("Rate limited", zap.String("user_id", caller.UserID), zap.String("command", inv.Command))
		return Reply{Content: MsgRateLimited, Ephemeral: true}
	}

	switch inv.Command {
	case CommandCalendar:
		return h.calendar(ctx, inv)
	case CommandDebug:
		if !caller.Admin {
			h.log.Warn("Rejected debug command from non-admin",
				zap.String("user_id", caller.UserID),
				zap.String("subcommand", inv.Subcommand),
			)
			return Reply{Content: MsgNotAdmin, Ephemeral: true}
		}
		return h.debug(ctx, inv)
	default:
		return Reply{Content: fmt.Sprintf("Unknown command: %s", inv.Command), Ephemeral: true}
	}
}

// fail logs err and records it in the error log. The reply never carries
// err's text.
func (h *Handler) fail(ctx context.Context, errorType, info string, err error, msg string, ephemeral bool) Reply {
	h.log.Error("Command failed",
		zap.String("error_type", errorType),
		zap.String("context", info),
		zap.Error(err),
	)
	h.store.AppendErrorLog(ctx, errorType, err.Error(), &info)
	return Reply{Content: msg, Ephemeral: ephemeral}
}
