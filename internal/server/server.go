package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/katapod/transcribe/internal/billing"
	billingdomain "github.com/katapod/transcribe/internal/billing/domain"
	"github.com/katapod/transcribe/internal/config"
	"github.com/katapod/transcribe/internal/customer"
	"github.com/katapod/transcribe/internal/metrics"
	"github.com/katapod/transcribe/internal/transcription"
	transcriptiondomain "github.com/katapod/transcribe/internal/transcription/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	customer.Module,
	billing.Module,
	transcription.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type Server struct {
	engine           *gin.Engine
	cfg              *config.Config
	log              *zap.Logger
	billingSvc       billingdomain.Service
	transcriptionSvc transcriptiondomain.Service
	metrics          *metrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              *config.Config
	Log              *zap.Logger
	BillingSvc       billingdomain.Service
	TranscriptionSvc transcriptiondomain.Service
	Metrics          *metrics.Metrics
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		log:              p.Log.Named("server"),
		billingSvc:       p.BillingSvc,
		transcriptionSvc: p.TranscriptionSvc,
		metrics:          p.Metrics,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.POST("/transcribe", s.Transcribe)
	api.GET("/transcriptions", s.ListTranscriptions)
	api.GET("/transcriptions/bin", s.ListBin)
	api.DELETE("/transcriptions/:id", s.DeleteTranscription)
	api.POST("/transcriptions/:id/restore", s.RestoreTranscription)
	api.DELETE("/transcriptions/:id/purge", s.PurgeTranscription)

	stripe := api.Group("/stripe")
	stripe.POST("/checkout", s.Checkout)
	stripe.POST("/portal", s.Portal)
	stripe.POST("/upcoming-invoice", s.UpcomingInvoice)
}

func run(lc fx.Lifecycle, s *Server, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
