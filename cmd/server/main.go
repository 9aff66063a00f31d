package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"identity-api/internal/config"
	"identity-api/internal/database"
	apphttp "identity-api/internal/http"
	"identity-api/internal/repository/mssql"
	"identity-api/internal/repository/weather"
	"identity-api/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Database.ConnString) == "" {
		logger.Fatalf("database connection string is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	executor, err := database.NewExecutor(cfg.Database.ConnString, logger)
	if err != nil {
		logger.Fatalf("setup procedure executor: %v", err)
	}
	defer executor.Close()

	userRepo := mssql.NewUserRepository(executor, logger)
	forecastRepo := weather.NewForecastRepository(logger)

	userService := service.NewUserService(userRepo, logger)
	weatherService := service.NewWeatherService(forecastRepo)

	authService, err := service.NewAuthService(service.AuthConfig{
		SecretKey:     cfg.Auth.SecretKey,
		Issuer:        cfg.Auth.Issuer,
		Audience:      cfg.Auth.Audience,
		ExpiryMinutes: cfg.Auth.ExpiryMinutes,
	}, logger)
	if err != nil {
		logger.Fatalf("setup auth service: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := apphttp.NewHandler(userService, authService, weatherService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	var tlsSrv *http.Server
	if cfg.Server.TLSAddr != "" {
		tlsSrv = &http.Server{
			Addr:    cfg.Server.TLSAddr,
			Handler: router,
		}
		go func() {
			logger.Infof("listening on %s (tls)", cfg.Server.TLSAddr)
			if err := tlsSrv.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("https server: %v", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if tlsSrv != nil {
		if err := tlsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("https shutdown: %v", err)
		}
	}

	logger.Info("bye")
}
