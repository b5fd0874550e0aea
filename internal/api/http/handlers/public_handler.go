package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/registry-service/internal/api/dto"
	"github.com/spec-kit/registry-service/internal/service"
)

const (
	metricsCacheControl = "public, s-maxage=60, stale-while-revalidate=120"
	quotesCacheControl  = "public, s-maxage=300, stale-while-revalidate=600"
)

// PublicHandler serves the landing page counters and testimonials.
type PublicHandler struct {
	stats *service.StatsService
}

// NewPublicHandler constructs handler.
func NewPublicHandler(stats *service.StatsService) *PublicHandler {
	return &PublicHandler{stats: stats}
}

// Metrics handles GET /api/metrics.
func (h *PublicHandler) Metrics(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, metricsCacheControl)
	return c.JSON(h.stats.Metrics(c.UserContext()))
}

// Quotes handles GET /api/quotes.
func (h *PublicHandler) Quotes(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, quotesCacheControl)
	return c.JSON(dto.QuotesResponse{Quotes: h.stats.Quotes(c.UserContext())})
}
