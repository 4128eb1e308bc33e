package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/liturgical-calendar-bot/internal/config"
	"github.com/palemoky/liturgical-calendar-bot/internal/testutil"
)

func testConfig(rateLimit bool) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.RateLimit.Enabled = rateLimit
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 2
	return cfg
}

func TestSetupRouterRoutes(t *testing.T) {
	_, repo := testutil.SetupTestDB(t)
	router := SetupRouter(testConfig(false), repo)

	tests := []struct {
		path string
		want int
	}{
		{path: "/api/v1/health", want: http.StatusOK},
		{path: "/api/v1/stats", want: http.StatusOK},
		{path: "/api/v1/calendar/new?month=1&day=1", want: http.StatusOK},
		{path: "/api/v1/calendar/unknown", want: http.StatusBadRequest},
		{path: "/api/v1/entries", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSetupRouterRateLimit(t *testing.T) {
	_, repo := testutil.SetupTestDB(t)
	router := SetupRouter(testConfig(true), repo)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
