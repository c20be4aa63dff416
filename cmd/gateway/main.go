package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catering-backoffice/config"
	"catering-backoffice/internal/database"
	"catering-backoffice/internal/gateway/handlers"
	"catering-backoffice/internal/gateway/middleware"
	"catering-backoffice/internal/health"
	"catering-backoffice/internal/logger"
	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/services/attendance"
	"catering-backoffice/internal/services/availability"
	"catering-backoffice/internal/services/reports"
	"catering-backoffice/internal/services/scheduling"
	"catering-backoffice/internal/services/worklogs"
	"catering-backoffice/internal/store/gormstore"
	"catering-backoffice/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const healthInterval = 15 * time.Second

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.Log)

	if err := run(cfg); err != nil {
		logger.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	decimal.MarshalJSONWithoutQuotes = true
	gin.SetMode(gin.ReleaseMode)

	shutdownTelemetry := telemetry.Setup(cfg.Telemetry)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	salary, err := salaryConfig(cfg.Salary)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	rateLimit, err := middleware.RateLimit(cfg.RateLimit.Rate)
	if err != nil {
		return err
	}

	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	st := gormstore.New(db)

	// The report cache is optional: without redis every report hits the
	// database.
	var (
		reportCache reports.Cache
		invalidator interface{ Invalidate(context.Context) }
		cachePinger health.Pinger
	)
	redisClient, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		logger.Info("redis connected", "addr", redisClient.Options().Addr)
		rc := reports.NewRedisCache(redisClient, cfg.Redis.ReportTTL)
		reportCache, invalidator = rc, rc
		cachePinger = health.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	monitor := health.NewMonitor(st, cachePinger)

	h := routeHandlers{
		imports: handlers.NewImportHTTPHandler(attendance.NewService(st, invalidator, salary)),
		reports: handlers.NewReportHTTPHandler(
			reports.NewService(st, reportCache),
			availability.NewService(st),
		),
		worklogs:   handlers.NewWorkLogHTTPHandler(worklogs.NewService(st, invalidator, salary)),
		scheduling: handlers.NewSchedulingHTTPHandler(scheduling.NewService(st)),
		health:     handlers.NewHealthHTTPHandler(monitor),
	}
	router := newRouter(h, []byte(cfg.Auth.JWTSecret), rateLimit)

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      otelhttp.NewHandler(router, cfg.Telemetry.ServiceName),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	grpcServer := health.NewGRPCServer(monitor)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go monitor.Run(ctx, healthInterval)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("grpc health listening", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		logger.Info("http gateway listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", "error", err)
	}
	grpcServer.GracefulStop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// salaryConfig turns the configured payroll defaults into calculator input.
func salaryConfig(c config.SalaryConfig) (payroll.SalaryConfig, error) {
	rate, err := decimal.NewFromString(c.OvertimeRate)
	if err != nil {
		return payroll.SalaryConfig{}, fmt.Errorf("invalid SALARY_OVERTIME_RATE %q: %w", c.OvertimeRate, err)
	}
	sc := payroll.SalaryConfig{
		BaseHours:        c.BaseHours,
		OvertimeInterval: c.OvertimeInterval,
		OvertimeRate:     rate,
	}
	if err := sc.Validate(); err != nil {
		return payroll.SalaryConfig{}, err
	}
	return sc, nil
}
