package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/registry-service/internal/config"
)

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"}, config.AppConfig{Name: "registry", Env: "production"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "DEBUG"}, config.AppConfig{Name: "registry"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/api/register", "POST", 201, time.Millisecond)
		m.RecordError("/api/register", "POST", "VALIDATION_FAILED")
		m.RecordSubmission("registration", OutcomeStored)
		m.RecordRateLimited("register")
		m.RecordNotification("webhook", OutcomeDelivered)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordSubmission("contact", OutcomeStored)
	m.RecordSubmission("contact", OutcomeStored)
	m.RecordRateLimited("contact")
	m.RecordNotification("email", OutcomeSkipped)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("contact", OutcomeStored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("contact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("email", OutcomeSkipped)))
}

func TestRequestLogger_RecordsRoutePattern(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/items/:id", "GET", "202")))
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/items/42", entries[0].ContextMap()["path"])
	assert.EqualValues(t, 202, entries[0].ContextMap()["status"])
}
