package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, exp, err := tm.GenerateToken()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken()
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.Error(t, err, "wrong secret")

	_, err = tm.ParseToken("1")
	assert.Error(t, err, "legacy flag value")

	expired := NewTokenManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	old, _, err := expired.GenerateToken()
	require.NoError(t, err)
	_, err = tm.ParseToken(old)
	assert.Error(t, err, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: AdminSubject})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.ParseToken(unsigned)
	assert.Error(t, err, "alg none")
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "hunter2"))
	assert.Error(t, ComparePassword(hash, "hunter3"))

	assert.True(t, EqualSecret("abc", "abc"))
	assert.False(t, EqualSecret("abc", "abd"))
	assert.False(t, EqualSecret("abc", ""))
}

func newGatedApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(http.StatusUnauthorized)
		},
	})
	gate := NewAuthMiddleware(tm)
	app.Use("/admin", gate.Handle)
	app.Use("/api/admin", gate.Handle)
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/admin/login", ok)
	app.Get("/admin/submissions", ok)
	app.Get("/api/admin/submissions", ok)
	app.Post("/api/admin/login", ok)
	return app
}

func TestAuthMiddleware_Gate(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	app := newGatedApp(tm)
	token, _, err := tm.GenerateToken()
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		cookie   string
		status   int
		location string
	}{
		{"login page is public", http.MethodGet, "/admin/login", "", http.StatusOK, ""},
		{"login api is public", http.MethodPost, "/api/admin/login", "", http.StatusOK, ""},
		{"page redirects", http.MethodGet, "/admin/submissions?page=2", "", http.StatusFound, "/admin/login?next=%2Fadmin%2Fsubmissions%3Fpage%3D2"},
		{"api 401", http.MethodGet, "/api/admin/submissions", "", http.StatusUnauthorized, ""},
		{"api 401 any case", http.MethodGet, "/API/Admin/submissions", "", http.StatusUnauthorized, ""},
		{"login api public any case", http.MethodPost, "/API/ADMIN/LOGIN", "", http.StatusOK, ""},
		{"legacy flag rejected", http.MethodGet, "/api/admin/submissions", "1", http.StatusUnauthorized, ""},
		{"valid session page", http.MethodGet, "/admin/submissions", token, http.StatusOK, ""},
		{"valid session api", http.MethodGet, "/api/admin/submissions", token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/admin/submissions?page=2", SafeNext("/admin/submissions?page=2"))
	assert.Equal(t, SubmissionPage, SafeNext("https://evil.example"))
	assert.Equal(t, SubmissionPage, SafeNext("//evil.example"))
	assert.Equal(t, SubmissionPage, SafeNext(LoginPage))
	assert.Equal(t, SubmissionPage, SafeNext(""))
}
