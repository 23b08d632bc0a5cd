package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/serviconnect/backend/internal/handler"
	appmw "github.com/serviconnect/backend/internal/middleware"
	"github.com/serviconnect/backend/internal/repository"
	"github.com/serviconnect/backend/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	Auth         *appmw.AuthMiddleware
	StrictErrors bool
	GitSHA       string
	BuildTime    string
}

type dbSetter interface {
	SetDB(db *gorm.DB)
}

type Server struct {
	e     *echo.Echo
	repos []dbSetter
}

// New wires repositories, services and routes around one gamification
// engine. db may be nil and injected later with SetDB; until then every
// repository answers ErrDBNotReady.
func New(db *gorm.DB, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	auth := opts.Auth
	// nil rejects every authenticated route
	if auth == nil {
		auth = appmw.NewAuthMiddlewareWithVerifier(nil)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmw.RequestContext())
	e.Use(appmw.RequestLogger(logger))
	e.Use(appmw.Prometheus())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", appmw.DevUserHeader},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin,
	}))

	userRepo := repository.NewUserRepository(db)
	gamRepo := repository.NewGamificationRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	notifSvc := service.NewNotificationService(notifRepo, logger)
	gamSvc := service.NewGamificationService(gamRepo, logger,
		service.WithStrictErrors(opts.StrictErrors),
		service.WithNotifier(notifSvc))
	userSvc := service.NewUserService(userRepo, gamSvc)
	offeringSvc := service.NewOfferingService(offeringRepo, userRepo)
	apptSvc := service.NewAppointmentService(apptRepo, offeringRepo, gamSvc)
	reviewSvc := service.NewReviewService(reviewRepo, apptRepo, gamSvc)

	userHandler := handler.NewUserHandler(userSvc)
	gamHandler := handler.NewGamificationHandler(gamSvc)
	offeringHandler := handler.NewOfferingHandler(offeringSvc)
	apptHandler := handler.NewAppointmentHandler(apptSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    opts.GitSHA,
			"build_time": opts.BuildTime,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/users", userHandler.Register, auth.OptionalAuth)
	api.GET("/users/:id", userHandler.Get, auth.OptionalAuth)
	api.GET("/users/:id/gamification", gamHandler.UserSummary)
	api.GET("/badges", gamHandler.ListBadges)

	api.GET("/offerings", offeringHandler.List)
	api.GET("/offerings/:id", offeringHandler.Get)
	api.POST("/offerings", offeringHandler.Create, auth.RequireAuth)

	api.POST("/appointments", apptHandler.Book, auth.RequireAuth)
	api.GET("/appointments/:id", apptHandler.Get, auth.RequireAuth)
	api.POST("/appointments/:id/complete", apptHandler.Complete, auth.RequireAuth)
	api.POST("/appointments/:id/cancel", apptHandler.Cancel, auth.RequireAuth)
	api.GET("/appointments/:id/reviews", reviewHandler.List)
	api.POST("/appointments/:id/reviews", reviewHandler.Create, auth.RequireAuth)

	api.GET("/me/appointments", apptHandler.ListMine, auth.RequireAuth)
	api.GET("/me/notifications", notifHandler.List, auth.RequireAuth)
	api.GET("/me/notifications/badges", notifHandler.ListBadgeAwards, auth.RequireAuth)
	api.POST("/me/notifications/read", notifHandler.MarkAllRead, auth.RequireAuth)

	return &Server{
		e:     e,
		repos: []dbSetter{userRepo, gamRepo, notifRepo, offeringRepo, apptRepo, reviewRepo},
	}
}

func allowOrigin(origin string) (bool, error) {
	low := strings.ToLower(origin)
	if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
		strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
		return true, nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false, nil
	}
	if u.Scheme != "https" {
		return false, nil
	}
	return strings.HasSuffix(u.Hostname(), ".vercel.app"), nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// SetDB points every repository at db, for connections established after the
// listener is up.
func (s *Server) SetDB(db *gorm.DB) {
	for _, r := range s.repos {
		r.SetDB(db)
	}
}
