package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-api/internal/auth"
	"github.com/taskhub/taskhub-api/internal/model"
	"github.com/taskhub/taskhub-api/internal/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeResolver resolves emails from a fixed map.
type fakeResolver struct {
	users map[string]model.User
}

func (r *fakeResolver) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func gateFixture(t *testing.T) (*echo.Echo, *auth.Issuer) {
	t.Helper()
	issuer := auth.NewIssuer(testSecret, time.Hour)
	resolver := &fakeResolver{users: map[string]model.User{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Username: "alice"},
	}}

	e := echo.New()
	e.Use(Authenticate(issuer, resolver))

	// A protected route reporting whether an identity was established.
	e.GET("/api/tasks", func(c echo.Context) error {
		if u, ok := CurrentUser(c); ok {
			return c.String(http.StatusOK, u.Email)
		}
		return c.String(http.StatusOK, "anonymous")
	}, RequireUser())
	// A public route on the allow-list.
	e.POST("/api/auth/sign-in", func(c echo.Context) error {
		return c.String(http.StatusOK, "public")
	})
	return e, issuer
}

func do(e *echo.Echo, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGateEstablishesIdentity(t *testing.T) {
	e, issuer := gateFixture(t)

	token, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/api/tasks", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", rec.Body.String())
}

func TestGateFailsClosedOnGarbageToken(t *testing.T) {
	e, _ := gateFixture(t)

	rec := do(e, http.MethodGet, "/api/tasks", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestGateRejectsExpiredToken(t *testing.T) {
	e, _ := gateFixture(t)
	expired := auth.NewIssuer(testSecret, -time.Minute)

	token, err := expired.Issue("alice@example.com")
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/api/tasks", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateRejectsUnknownSubject(t *testing.T) {
	e, issuer := gateFixture(t)

	token, err := issuer.Issue("ghost@example.com")
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/api/tasks", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingTokenOnProtectedRoute(t *testing.T) {
	e, _ := gateFixture(t)

	rec := do(e, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestBearerPrefixIsCaseSensitive(t *testing.T) {
	e, issuer := gateFixture(t)

	token, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	// "bearer" (lowercase) is not a token at all; the request proceeds
	// unauthenticated and RequireUser rejects it.
	rec := do(e, http.MethodGet, "/api/tasks", "bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestPublicRouteBypassesGate(t *testing.T) {
	e, _ := gateFixture(t)

	// Even a garbage token is ignored on an allow-listed path.
	rec := do(e, http.MethodPost, "/api/auth/sign-in", "Bearer garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public", rec.Body.String())
}

func TestPreflightBypassesGate(t *testing.T) {
	e, _ := gateFixture(t)
	e.OPTIONS("/api/tasks", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := do(e, http.MethodOptions, "/api/tasks", "Bearer garbage")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
