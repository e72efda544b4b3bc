package web

import (
	"net/http"
	"time"

	"resume-ranker/config"
	"resume-ranker/internal/delivery/http/middleware"
	"resume-ranker/internal/delivery/http/response"
	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/domain"
	"resume-ranker/internal/usecase"
	"resume-ranker/pkg/logger"
	"resume-ranker/pkg/security"

	"github.com/gin-gonic/gin"
)

// formOverhead is the body allowance on top of the resume size limit for
// multipart framing and the other form fields.
const formOverhead = 1 << 20

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	CandidateUC domain.CandidateUsecase
	RecruiterUC domain.RecruiterUsecase
	HealthUC    usecase.HealthUsecase
	Limiter     *middleware.RateLimiter // nil disables rate limiting
	Logins      *security.LoginTracker  // nil tracks failures in memory
	Config      *config.Config
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	cfg := deps.Config

	r := gin.New()
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger.Named("HTTP")))
	r.Use(middleware.Recovery(logger.Log))
	r.Use(middleware.SecurityHeadersMiddleware(cfg.CookieSecure))
	r.Use(middleware.ErrorHandler(logger.Log))

	r.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		if status["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	pages := r.Group("")
	pages.Use(middleware.BodyLimit(cfg.MaxUploadBytes() + formOverhead))
	pages.Use(session.Middleware(session.Options{
		Name:   cfg.SessionName,
		Secret: []byte(cfg.SessionSecret),
		MaxAge: cfg.SessionMaxAgeSeconds,
		Secure: cfg.CookieSecure,
	}))
	pages.Use(middleware.CSRFMiddleware())

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	loginLimit := passThrough
	uploadLimit := passThrough
	if deps.Limiter != nil {
		loginLimit = deps.Limiter.Middleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window))
		uploadLimit = deps.Limiter.Middleware(middleware.UploadRateLimitConfig(cfg.RateLimitUploadThreshold, window))
	}

	logins := deps.Logins
	if logins == nil {
		logins = security.NewLoginTracker(nil, security.LoginTrackerConfig{
			MaxAttempts:   cfg.LoginMaxAttempts,
			BlockDuration: time.Duration(cfg.LoginBlockMinutes) * time.Minute,
		}, logger.Named("AuthPage"))
	}

	NewAuthHandler(pages, deps.AuthUC, logins, loginLimit)

	candidate := pages.Group("/candidate")
	candidate.Use(middleware.RequireSession(logger.Named("CandidatePage"), domain.RoleCandidate))
	{
		NewProfileHandler(candidate, deps.AuthUC, logger.Named("CandidatePage"))
		NewCandidateHandler(candidate, deps.CandidateUC, logger.Named("CandidatePage"), uploadLimit)
	}

	recruiter := pages.Group("/recruiter")
	recruiter.Use(middleware.RequireSession(logger.Named("RecruiterPage"), domain.RoleRecruiter))
	{
		NewProfileHandler(recruiter, deps.AuthUC, logger.Named("RecruiterPage"))
		NewRecruiterHandler(recruiter, deps.RecruiterUC, logger.Named("RecruiterPage"))
	}

	r.NoRoute(func(c *gin.Context) {
		response.ErrorPage(c, http.StatusNotFound, "Page not found")
	})

	return r, nil
}

func passThrough(c *gin.Context) { c.Next() }
