package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sanasa-loans/config"
	httpLayer "sanasa-loans/http"
	"sanasa-loans/repository"
	"sanasa-loans/service"
)

func main() {
	conf, err := config.Load()
	noErr(err)

	logger := newLogger(conf)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var loanRepo repository.LoanApplicationRepository
	if conf.DatabaseURL != "" {
		pgRepo, err := repository.ConnectPostgres(ctx, conf.DatabaseURL, logger.Named("postgres"))
		if err != nil {
			logger.Fatal("failed to initialize application store", zap.Error(err))
		}
		defer pgRepo.Close()
		loanRepo = pgRepo
	} else {
		logger.Warn("no database configured, loan applications are kept in memory")
		loanRepo = repository.NewLoanApplicationMemory()
	}

	var cache repository.CacheRepository
	if conf.RedisAddr != "" {
		redisCache := repository.NewRedisCache(conf.RedisAddr)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Fatal("failed to reach redis", zap.Error(err))
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		memCache := repository.NewMemoryCache(conf.CacheTTL)
		defer memCache.Stop()
		cache = memCache
	}

	validator := service.NewValidator()
	calculator := service.NewCalculatorService(cache, conf.CacheTTL, logger.Named("calculator"))
	applications := service.NewLoanApplicationService(loanRepo, validator, logger.Named("applications"))
	tenureAdvisor := service.NewTenureAdvisorService(calculator, validator, logger.Named("tenure-advisor"))

	rateLimiter := httpLayer.NewRateLimiter(conf.RateLimit, conf.RateWindow)
	defer rateLimiter.Stop()

	server := httpLayer.NewServer(&httpLayer.Options{
		Address:       conf.Addr,
		Env:           conf.Env,
		Debug:         conf.Debug,
		BodyLimit:     conf.BodyLimit,
		Logger:        logger.Named("http"),
		Validator:     validator,
		RateLimiter:   rateLimiter,
		Calculator:    calculator,
		Applications:  applications,
		TenureAdvisor: tenureAdvisor,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("error starting server", zap.Error(err))
		return
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(conf *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if conf.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	noErr(err)
	return logger
}

func noErr(err error) {
	if err != nil {
		panic("failed to initialize something important: " + err.Error())
	}
}
