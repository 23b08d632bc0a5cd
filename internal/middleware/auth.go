package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/serviconnect/backend/internal/reqctx"
)

// DevUserHeader carries the caller id in dev mode.
const DevUserHeader = "X-User-Id"

var ErrAuthNotConfigured = errors.New("FIREBASE_PROJECT_ID is not set and AUTH_DEV_MODE is off")

type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware without a verifier rejects every request unless dev is set.
type AuthMiddleware struct {
	verifier TokenVerifier
	dev      bool
}

// NewAuthMiddleware verifies Firebase ID tokens for projectID. devMode makes
// an empty projectID trust the X-User-Id header; without it a missing
// project is an error.
func NewAuthMiddleware(ctx context.Context, projectID string, devMode bool) (*AuthMiddleware, error) {
	if projectID == "" {
		if !devMode {
			return nil, ErrAuthNotConfigured
		}
		return NewDevAuthMiddleware(), nil
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{verifier: client}, nil
}

func NewAuthMiddlewareWithVerifier(v TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

// NewDevAuthMiddleware trusts the X-User-Id header. Local development only.
func NewDevAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{dev: true}
}

func (m *AuthMiddleware) DevMode() bool {
	return m.dev
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, code := m.resolve(c)
		if uid == "" {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"error": map[string]string{"code": code, "message": "authentication required"},
			})
		}
		c.Set("uid", uid)
		req := c.Request()
		c.SetRequest(req.WithContext(reqctx.WithUserID(req.Context(), uid)))
		return next(c)
	}
}

func (m *AuthMiddleware) resolve(c echo.Context) (string, string) {
	if m.dev {
		return strings.TrimSpace(c.Request().Header.Get(DevUserHeader)), "unauthorized"
	}
	if m.verifier == nil {
		return "", "unauthorized"
	}
	authz := c.Request().Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", "unauthorized"
	}
	tokenStr := strings.TrimPrefix(authz, "Bearer ")
	token, err := m.verifier.VerifyIDToken(c.Request().Context(), tokenStr)
	if err != nil {
		return "", "invalid_token"
	}
	return token.UID, ""
}

// OptionalAuth sets the uid when the request carries valid credentials and
// lets anonymous requests through.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if uid, _ := m.resolve(c); uid != "" {
			c.Set("uid", uid)
			req := c.Request()
			c.SetRequest(req.WithContext(reqctx.WithUserID(req.Context(), uid)))
		}
		return next(c)
	}
}
