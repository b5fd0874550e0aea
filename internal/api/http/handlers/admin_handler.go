package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/registry-service/internal/api/dto"
	"github.com/spec-kit/registry-service/internal/auth"
	"github.com/spec-kit/registry-service/internal/report"
	"github.com/spec-kit/registry-service/internal/service"
	apperrors "github.com/spec-kit/registry-service/pkg/util"
)

const (
	formatCSV           = "csv"
	sessionExpiryLayout = "2006-01-02 15:04 UTC"
)

// AdminHandler serves the admin session endpoints and reporting views.
type AdminHandler struct {
	auth         *service.AuthService
	reports      *service.ReportService
	secureCookie bool
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, reports *service.ReportService, secureCookie bool) *AdminHandler {
	return &AdminHandler{auth: authService, reports: reports, secureCookie: secureCookie}
}

// LoginPage handles GET /admin/login.
func (h *AdminHandler) LoginPage(c *fiber.Ctx) error {
	return renderHTML(c, http.StatusOK, loginTemplate, loginView{Next: auth.SafeNext(c.Query("next"))})
}

// Login handles POST /api/admin/login. JSON callers get JSON back; form
// posts from the login page are redirected to next.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(MsgInvalidBody, nil)
	}
	asForm := !isJSON(c)

	token, exp, err := h.auth.Login(c.UserContext(), req.Password)
	if err != nil {
		if asForm {
			de := apperrors.ToDomainError(err)
			return renderHTML(c, de.HTTPStatus, loginTemplate, loginView{Next: auth.SafeNext(req.Next), Error: de.Message})
		}
		return err
	}

	auth.SetSessionCookie(c, token, exp, h.secureCookie)
	if asForm {
		return c.Redirect(auth.SafeNext(req.Next), http.StatusSeeOther)
	}
	return c.JSON(dto.LoginResponse{Success: true, ExpiresAt: exp})
}

// Logout handles POST /api/admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	auth.ClearSessionCookie(c, h.secureCookie)
	if !isJSON(c) && strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		return c.Redirect(auth.LoginPage, http.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListSubmissions handles GET /api/admin/submissions. format=csv streams the
// full filtered result as an attachment.
func (h *AdminHandler) ListSubmissions(c *fiber.Ctx) error {
	q := reportQuery(c)
	if strings.EqualFold(c.Query("format"), formatCSV) {
		var buf bytes.Buffer
		if err := h.reports.Export(c.UserContext(), q, &buf); err != nil {
			return err
		}
		c.Attachment(report.Filename)
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(buf.Bytes())
	}

	page, err := h.reports.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(page)
}

// SubmissionsPage handles GET /admin/submissions.
func (h *AdminHandler) SubmissionsPage(c *fiber.Ctx) error {
	page, err := h.reports.List(c.UserContext(), reportQuery(c))
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(page.Data))
	for i := range page.Data {
		rows = append(rows, report.Row(&page.Data[i]))
	}
	view := submissionsView{
		Total:   page.Total,
		Columns: report.Columns,
		Rows:    rows,
	}
	if claims, ok := auth.ClaimsFromContext(c); ok && claims.ExpiresAt != nil {
		view.SessionExpires = claims.ExpiresAt.Time.UTC().Format(sessionExpiryLayout)
	}
	return renderHTML(c, http.StatusOK, submissionsTemplate, view)
}

func reportQuery(c *fiber.Ctx) service.ReportQuery {
	return service.ReportQuery{
		Type:     c.Query("type"),
		Role:     c.Query("role"),
		Search:   c.Query("search"),
		Start:    c.Query("start"),
		End:      c.Query("end"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
	}
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}
