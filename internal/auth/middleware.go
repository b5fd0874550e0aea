package auth

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/registry-service/pkg/util"
)

// Session cookie and route constants.
const (
	SessionCookie  = "admin_session"
	LoginPage      = "/admin/login"
	LoginAPI       = "/api/admin/login"
	LogoutAPI      = "/api/admin/logout"
	SubmissionPage = "/admin/submissions"
	apiPrefix      = "/api/"
	claimsKey      = "admin_claims"
)

// AuthMiddleware guards the admin namespace with the signed session cookie.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle lets authenticated requests through. Anonymous page requests are
// redirected to the login form with the original path in next; anonymous
// API requests get 401.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	path := strings.ToLower(c.Path())
	if isPublicAdminPath(path) {
		return c.Next()
	}

	if raw := c.Cookies(SessionCookie); raw != "" {
		if claims, err := m.tokens.ParseToken(raw); err == nil {
			c.Locals(claimsKey, claims)
			return c.Next()
		}
	}

	if strings.HasPrefix(path, apiPrefix) {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	return c.Redirect(LoginPage+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
}

// ClaimsFromContext retrieves the authenticated session.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}

// SetSessionCookie stores token as an HTTP-only, SameSite=Lax cookie.
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SafeNext returns next when it is a local admin path, else the dashboard.
func SafeNext(next string) string {
	if strings.HasPrefix(next, "/admin") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, LoginPage) {
		return next
	}
	return SubmissionPage
}

func isPublicAdminPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	return path == LoginPage || path == LoginAPI || path == LogoutAPI
}
