package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/registry-service/internal/api/dto"
	"github.com/spec-kit/registry-service/internal/observability"
	"github.com/spec-kit/registry-service/internal/ratelimit"
	"github.com/spec-kit/registry-service/internal/service"
	apperrors "github.com/spec-kit/registry-service/pkg/util"
)

// Public submission messages.
const (
	MsgRateLimited       = "Too many requests. Please try again later."
	MsgInvalidBody       = "Invalid request body"
	MsgRegistrationSaved = "Thank you for joining the registry!"
	MsgContactSaved      = "Thank you! We will be in touch soon."

	scopeRegister = "register"
	scopeContact  = "contact"
)

// SubmissionsHandler accepts public registry and contact submissions.
type SubmissionsHandler struct {
	submissions *service.SubmissionService
	limiter     ratelimit.Limiter
	metrics     *observability.Metrics
}

// NewSubmissionsHandler constructs handler.
func NewSubmissionsHandler(submissions *service.SubmissionService, limiter ratelimit.Limiter, metrics *observability.Metrics) *SubmissionsHandler {
	return &SubmissionsHandler{submissions: submissions, limiter: limiter, metrics: metrics}
}

// Register handles POST /api/register.
func (h *SubmissionsHandler) Register(c *fiber.Ctx) error {
	if err := h.throttle(c, scopeRegister); err != nil {
		return err
	}
	var req dto.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(MsgInvalidBody, nil)
	}

	submission, err := h.submissions.SubmitRegistration(c.UserContext(), req.Input(), req.Website)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SubmissionCreatedResponse{
		Success: true,
		ID:      submission.ID,
		Message: MsgRegistrationSaved,
	})
}

// Contact handles POST /api/contact.
func (h *SubmissionsHandler) Contact(c *fiber.Ctx) error {
	if err := h.throttle(c, scopeContact); err != nil {
		return err
	}
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(MsgInvalidBody, nil)
	}

	submission, err := h.submissions.SubmitContact(c.UserContext(), req.Input(), req.Website)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SubmissionCreatedResponse{
		Success: true,
		ID:      submission.ID,
		Message: MsgContactSaved,
	})
}

func (h *SubmissionsHandler) throttle(c *fiber.Ctx, scope string) error {
	if h.limiter == nil {
		return nil
	}
	key := scope + ":" + ratelimit.ClientIdentifier(func(name string) string { return c.Get(name) })
	res := h.limiter.Check(c.UserContext(), key)
	if res.Allowed {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		return nil
	}

	secs := strconv.Itoa(ceilSeconds(res.ResetIn))
	c.Set("X-RateLimit-Remaining", "0")
	c.Set("X-RateLimit-Reset", secs)
	c.Set(fiber.HeaderRetryAfter, secs)
	h.metrics.RecordRateLimited(scope)
	return apperrors.NewRateLimited(MsgRateLimited, res.ResetIn)
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
