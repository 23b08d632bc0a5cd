package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/serviconnect/backend/internal/reqctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	if token == "good" {
		return &auth.Token{UID: "firebase-uid"}, nil
	}
	return nil, errors.New("bad token")
}

func echoUID(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	return c.JSON(http.StatusOK, map[string]string{
		"uid":     uid,
		"ctx_uid": reqctx.UserID(c.Request().Context()),
		"rid":     reqctx.RequestID(c.Request().Context()),
	})
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewAuthMiddlewareRefusesWithoutProject(t *testing.T) {
	m, err := NewAuthMiddleware(context.Background(), "", false)
	require.ErrorIs(t, err, ErrAuthNotConfigured)
	assert.Nil(t, m)
}

func TestRequireAuthWithoutVerifierRejects(t *testing.T) {
	m := NewAuthMiddlewareWithVerifier(nil)
	require.False(t, m.DevMode())
	e := echo.New()
	e.GET("/me", echoUID, m.RequireAuth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(DevUserHeader, "spoofed")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
}

func TestRequireAuthDevMode(t *testing.T) {
	m, err := NewAuthMiddleware(context.Background(), "", true)
	require.NoError(t, err)
	require.True(t, m.DevMode())

	e := echo.New()
	e.GET("/me", echoUID, m.RequireAuth)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(DevUserHeader, "dev-user")
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uid":"dev-user"`)
	assert.Contains(t, rec.Body.String(), `"ctx_uid":"dev-user"`)
}

func TestRequireAuthVerifier(t *testing.T) {
	m := NewAuthMiddlewareWithVerifier(stubVerifier{})
	e := echo.New()
	e.GET("/me", echoUID, m.RequireAuth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(DevUserHeader, "spoofed")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := serve(e, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uid":"firebase-uid"`)
}

func TestOptionalAuth(t *testing.T) {
	m := NewAuthMiddlewareWithVerifier(stubVerifier{})
	e := echo.New()
	e.GET("/me", echoUID, m.OptionalAuth)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uid":""`)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = serve(e, req)
	assert.Contains(t, rec.Body.String(), `"uid":"firebase-uid"`)
}

func TestRequestContextAndLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestContext())
	e.Use(RequestLogger(zap.New(core)))
	e.Use(Prometheus())
	e.GET("/ping", echoUID)
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rid":"rid-1"`)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}
