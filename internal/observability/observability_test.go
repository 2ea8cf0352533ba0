package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ecyclehub/ecyclehub/internal/config"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug"}, config.AppConfig{Name: "ecyclehub", Env: "test"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "nonsense"}, config.AppConfig{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAccountCreated()
	m.RecordRegistration(2.5)
	m.RecordRegistration(0.5)
	m.RecordConflict("username")
	m.RecordConflict("username")
	m.RecordError("/api/auth/login", http.MethodPost, apperrors.CodeUnauthorized)
	m.RecordRequest("/api/auth/login", http.MethodPost, http.StatusUnauthorized, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistrationsRecorded))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.KilogramsRecorded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Conflicts.WithLabelValues("username")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("/api/auth/login", "POST", apperrors.CodeUnauthorized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/auth/login", "POST", "401")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAccountCreated()
		m.RecordRegistration(1)
		m.RecordConflict("email")
		m.RecordError("/", "GET", "X")
		m.RecordRequest("/", "GET", 200, time.Millisecond)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/things/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NewNotFound("thing", nil) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/things/:id", entries[0].ContextMap()["route"])
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues("/things/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues("/missing", "GET", "404")))
}
