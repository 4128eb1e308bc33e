package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	apperrors "github.com/palemoky/liturgical-calendar-bot/internal/errors"
	"github.com/palemoky/liturgical-calendar-bot/internal/helpers"
	"github.com/palemoky/liturgical-calendar-bot/internal/liturgy"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

// CalendarHandler serves read-only calendar lookups
type CalendarHandler struct {
	lookup *liturgy.Service
	now    func() time.Time
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(store liturgy.Finder) *CalendarHandler {
	return &CalendarHandler{
		lookup: liturgy.NewService(store),
		now:    time.Now,
	}
}

// CalendarResponse is the body of a successful lookup
type CalendarResponse struct {
	Calendar database.Variant `json:"calendar"`
	Name     string           `json:"name"`
	Date     string           `json:"date"`
	Entries  []database.Entry `json:"entries"`
	Message  string           `json:"message"`
}

// GetCalendar handles GET /calendar/:variant?month=&day=
// Without month and day it answers for today.
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	v, err := database.ParseVariant(c.Param("variant"))
	if err != nil {
		respondError(c, http.StatusBadRequest, apperrors.UserMessage(err))
		return
	}

	month, err := helpers.ParseOptionalInt(optionalQuery(c, "month"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid month")
		return
	}
	day, err := helpers.ParseOptionalInt(optionalQuery(c, "day"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid day")
		return
	}

	date, err := helpers.ResolveDate(h.now(), month, day)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.lookup.Lookup(c.Request.Context(), v, date)
	if err != nil {
		logger.Error("Calendar lookup failed",
			zap.String("calendar", string(v)),
			zap.String("date", date.Format(time.DateOnly)),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, apperrors.GenericMessage)
		return
	}
	if entries == nil {
		entries = []database.Entry{}
	}

	respondOK(c, CalendarResponse{
		Calendar: v,
		Name:     v.DisplayName(),
		Date:     date.Format(time.DateOnly),
		Entries:  entries,
		Message:  liturgy.FormatMessage(entries, date, v),
	})
}

func optionalQuery(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}
