package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
	"github.com/palemoky/liturgical-calendar-bot/internal/helpers"
)

const (
	defaultErrorLimit = 10
	maxErrorLimit     = 50

	// errorTimeLayout matches the en-US locale string, e.g. "1/2/2026, 3:04:05 PM"
	errorTimeLayout = "1/2/2006, 3:04:05 PM"
)

func (h *Handler) debug(ctx context.Context, inv Invocation) Reply {
	var reply Reply
	switch inv.Subcommand {
	case SubFixEntry:
		reply = h.fixEntry(ctx, inv.Options)
	case SubViewErrors:
		reply = h.viewErrors(ctx, inv.Options)
	case SubAddEntry:
		reply = h.addEntry(ctx, inv.Options)
	default:
		reply = Reply{Content: fmt.Sprintf("Unknown subcommand: %s", inv.Subcommand)}
	}
	reply.Ephemeral = true
	return reply
}

func (h *Handler) debugFailure(ctx context.Context, sub string, err error) Reply {
	if k := apperrors.KindOf(err); k == apperrors.KindValidation || k == apperrors.KindNotFound {
		return Reply{Content: apperrors.UserMessage(err)}
	}
	return h.fail(ctx, ErrorTypeDebugCommand, sub, err, MsgDebugFailure, true)
}

func (h *Handler) fixEntry(ctx context.Context, opts Options) Reply {
	name, _ := opts.String(OptCalendar)
	id, _ := opts.Int(OptID)
	field, _ := opts.String(OptField)
	value, _ := opts.String(OptValue)

	v, err := database.ParseVariant(name)
	if err != nil {
		return Reply{Content: apperrors.UserMessage(err)}
	}

	cols, err := h.store.Columns(ctx, v)
	if err != nil {
		return h.debugFailure(ctx, SubFixEntry, err)
	}
	patchable := slices.DeleteFunc(slices.Clone(cols), func(c string) bool { return c == "id" })
	if !slices.Contains(patchable, field) {
		return Reply{Content: "Invalid field. Valid fields are: " + strings.Join(patchable, ", ")}
	}

	n, err := h.store.PatchField(ctx, v, id, field, value)
	if err != nil {
		return h.debugFailure(ctx, SubFixEntry, err)
	}
	if n == 0 {
		return Reply{Content: fmt.Sprintf("No entry found with ID %d in %s", id, v.Table())}
	}

	h.log.Info("Entry patched",
		zap.String("table", v.Table()),
		zap.Int64("id", id),
		zap.String("field", field),
	)
	return Reply{Content: fmt.Sprintf("Successfully updated %s for entry %d in %s", field, id, v.Table())}
}

func (h *Handler) viewErrors(ctx context.Context, opts Options) Reply {
	limit, _ := opts.Int(OptLimit)

	logs, err := h.store.RecentErrors(ctx, helpers.ClampLimit(int(limit), defaultErrorLimit, maxErrorLimit))
	if err != nil {
		return h.debugFailure(ctx, SubViewErrors, err)
	}
	if len(logs) == 0 {
		return Reply{Content: MsgNoErrors}
	}
	return Reply{Content: FormatErrors(logs, time.Local)}
}

// FormatErrors renders error rows newest first as a markdown list.
func FormatErrors(logs []database.ErrorLog, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("## Recent Errors\n\n")
	for _, e := range logs {
		ts := time.UnixMilli(e.Timestamp).In(loc).Format(errorTimeLayout)
		fmt.Fprintf(&b, "**%s** - %s\n%s\n", e.ErrorType, ts, e.ErrorMessage)
		if e.AdditionalInfo != nil && *e.AdditionalInfo != "" {
			fmt.Fprintf(&b, "Additional info: %s\n", *e.AdditionalInfo)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (h *Handler) addEntry(ctx context.Context, opts Options) Reply {
	name, _ := opts.String(OptCalendar)
	month, _ := opts.Int(OptMonth)
	day, _ := opts.Int(OptDay)
	data, _ := opts.String(OptData)

	v, err := database.ParseVariant(name)
	if err != nil {
		return Reply{Content: apperrors.UserMessage(err)}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(data), &fields); err != nil || fields == nil {
		return Reply{Content: MsgInvalidJSON}
	}
	// month and day options win over the same keys in data
	fields["month"] = month
	fields["day"] = day

	id, err := h.store.Insert(ctx, v, fields)
	if err != nil {
		return h.debugFailure(ctx, SubAddEntry, err)
	}

	h.log.Info("Entry added", zap.String("table", v.Table()), zap.Int64("id", id))
	return Reply{Content: fmt.Sprintf("Successfully added new entry to %s with ID %d", v.Table(), id)}
}
