package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"sanasa-loans/service"
)

type Options struct {
	Address        string
	Env            string
	Debug          bool
	DisableReqLogs bool
	BodyLimit      string

	Logger      *zap.Logger
	Validator   *service.Validator
	RateLimiter *RateLimiter

	Calculator    *service.CalculatorService
	Applications  *service.LoanApplicationService
	TenureAdvisor *service.TenureAdvisorService
}

type Server struct {
	opts *Options
	app  *echo.Echo
}

func NewServer(opts *Options) *Server {
	s := &Server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	// rate limiting keys on the peer address; forwarding headers are client controlled
	s.app.IPExtractor = echo.ExtractIPDirect()
	s.app.Validator = s.opts.Validator
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Validator)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.opts.Logger))
	}
	s.app.Use(middleware.Recover())
	if s.opts.BodyLimit != "" {
		s.app.Use(middleware.BodyLimit(s.opts.BodyLimit))
	}

	api := s.app.Group("/api")
	if s.opts.RateLimiter != nil {
		api.Use(RateLimitMiddleware(s.opts.RateLimiter))
	}
	api.GET("/health", s.health)

	loanHandler := NewLoanHandler(s.opts.Calculator)
	termHandler := NewTermRecommendationHandler(s.opts.TenureAdvisor)
	applicationHandler := NewLoanApplicationHandler(s.opts.Applications)

	loans := api.Group("/loans")
	loans.POST("/calculate-emi", loanHandler.CalculateEMI)
	loans.GET("/calculator", loanHandler.CalculatorPreview)
	loans.POST("/recommend-tenure", termHandler.RecommendTenure)
	loans.POST("/apply", applicationHandler.Apply)
	loans.GET("/applications", applicationHandler.List)
	loans.GET("/applications/:id", applicationHandler.Get)
	loans.PATCH("/applications/:id", applicationHandler.Update)
}

func (s *Server) Start() error {
	s.opts.Logger.Info("API listening", zap.String("addr", s.opts.Address), zap.String("env", s.opts.Env))
	return s.app.Start(s.opts.Address)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Sanasa Wilbagedara API is running",
		"environment": s.opts.Env,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remoteIP", v.RemoteIP),
			)
			return nil
		},
	})
}
