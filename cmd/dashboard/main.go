package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-ranker/config"
	"resume-ranker/internal/delivery/http/middleware"
	"resume-ranker/internal/delivery/http/web"
	"resume-ranker/internal/repository/api"
	"resume-ranker/internal/usecase"
	"resume-ranker/pkg/logger"
	redisclient "resume-ranker/pkg/redis"
	"resume-ranker/pkg/security"
	"resume-ranker/pkg/security/antivirus"
	"resume-ranker/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	if err := logger.Init(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Console: cfg.LogConsole}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	logger.Log.Info("Starting Resume Ranker dashboard", zap.String("port", cfg.Port), zap.String("api", cfg.APIBaseURL))

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Setup Redis (optional)
	var rdb *goredis.Client
	checks := map[string]usecase.HealthCheck{}
	if cfg.RedisURL != "" {
		rdb, err = redisclient.Connect(context.Background(), redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			checks["redis"] = func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}
		}
	}

	// 4. Setup virus scanning (optional)
	var scanner antivirus.Scanner = antivirus.NewNoOpScanner()
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, time.Duration(cfg.ClamAVTimeoutSeconds)*time.Second)
		scanner = clam
		checks["clamav"] = clam.Ping
	} else {
		logger.Log.Warn("CLAMAV_ADDRESS not configured, resumes are not scanned")
	}

	// 5. Setup API clients
	clients := api.NewFactory(cfg.APIBaseURL, nil)

	// 6. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(clients, validate)
	candidateUC := usecase.NewCandidateUsecase(clients, scanner, cfg.UploadTempDir, cfg.MaxUploadBytes())
	recruiterUC := usecase.NewRecruiterUsecase(clients, validate)
	healthUC := usecase.NewHealthUsecase(checks)

	limiter := middleware.NewRateLimiter(rdb, logger.Named("HTTP"))
	defer limiter.Close()
	logins := security.NewLoginTracker(rdb, security.LoginTrackerConfig{
		MaxAttempts:   cfg.LoginMaxAttempts,
		BlockDuration: time.Duration(cfg.LoginBlockMinutes) * time.Minute,
	}, logger.Named("AuthPage"))
	defer logins.Close()

	// 7. Setup Router
	router, err := web.NewRouter(web.RouterDeps{
		AuthUC:      authUC,
		CandidateUC: candidateUC,
		RecruiterUC: recruiterUC,
		HealthUC:    healthUC,
		Limiter:     limiter,
		Logins:      logins,
		Config:      cfg,
	})
	if err != nil {
		logger.Log.Error("Failed to build router", zap.Error(err))
		return
	}

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
