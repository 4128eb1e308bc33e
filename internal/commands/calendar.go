package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
	"github.com/palemoky/liturgical-calendar-bot/internal/helpers"
)

func (h *Handler) calendar(ctx context.Context, inv Invocation) Reply {
	name, _ := inv.Options.String(OptCalendar)
	v, err := database.ParseVariant(name)
	if err != nil {
		return Reply{Content: apperrors.UserMessage(err)}
	}

	var date time.Time
	switch inv.Subcommand {
	case SubToday:
		date = h.now()
	case SubDate:
		month, okMonth := inv.Options.Int(OptMonth)
		day, okDay := inv.Options.Int(OptDay)
		if !okMonth || !okDay {
			return Reply{Content: "Both month and day are required."}
		}
		now := h.now()
		d, ok := helpers.DateInYear(now.Year(), int(month), int(day), now.Location())
		if !ok {
			return Reply{Content: helpers.InvalidDateMessage(int(month), int(day))}
		}
		date = d
	default:
		return Reply{Content: fmt.Sprintf("Unknown subcommand: %s", inv.Subcommand)}
	}

	msg, err := h.lookup.Render(ctx, v, date)
	if err != nil {
		return h.fail(ctx, ErrorTypeCommandExecution, CommandCalendar, err, MsgCalendarFailure, false)
	}
	return Reply{Content: msg}
}
