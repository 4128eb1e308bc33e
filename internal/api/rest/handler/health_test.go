package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	"github.com/palemoky/liturgical-calendar-bot/internal/testutil"
)

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("database is closed") }

func (downStore) CountEntries(context.Context, database.Variant) (int64, error) {
	return 0, errors.New("database is closed")
}

func (downStore) CountErrors(context.Context) (int64, error) {
	return 0, errors.New("database is closed")
}

func TestHealthHandler(t *testing.T) {
	_, repo := testutil.SetupTestDB(t)

	tests := []struct {
		name           string
		store          Pinger
		expectedStatus int
		expectedState  string
	}{
		{
			name:           "healthy database",
			store:          repo,
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name:           "unreachable database",
			store:          downStore{},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testutil.SetupTestGin()
			router.GET("/health", HealthHandler(tt.store))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedState, response["status"])
		})
	}
}

func TestStatsHandler(t *testing.T) {
	_, repo := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, database.VariantGeneral, map[string]any{
		"month": 1, "day": 6, "celebration": "The Epiphany of the Lord", "rank": "Solemnity",
	})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, database.VariantMartyrology, map[string]any{
		"month": 1, "day": 6, "description": "The Epiphany of our Lord Jesus Christ.",
	})
	require.NoError(t, err)
	repo.AppendErrorLog(ctx, "DailyPost", "Missing Access", nil)

	t.Run("counts", func(t *testing.T) {
		router := testutil.SetupTestGin()
		router.GET("/stats", StatsHandler(repo))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Calendars map[string]int64 `json:"calendars"`
			ErrorLogs int64            `json:"error_logs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, map[string]int64{"new": 1, "tridentine": 0, "martyrology": 1}, response.Calendars)
		assert.Equal(t, int64(1), response.ErrorLogs)
	})

	t.Run("store failure", func(t *testing.T) {
		router := testutil.SetupTestGin()
		router.GET("/stats", StatsHandler(downStore{}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "database is closed")
	})
}
