package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/katapod/transcribe/internal/billing/domain"
	"github.com/katapod/transcribe/internal/config"
	"github.com/katapod/transcribe/internal/metrics"
	"github.com/katapod/transcribe/internal/transcription/domain"
	"github.com/katapod/transcribe/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config   *config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Upstream domain.Upstream
	Billing  billingdomain.Service
	Metrics  *metrics.Metrics
}

type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	upstream domain.Upstream
	billing  billingdomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Config,
		db:       p.DB,
		log:      p.Log.Named("transcription.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		upstream: p.Upstream,
		billing:  p.Billing,
		metrics:  p.Metrics,
	}
}

func (s *Service) Transcribe(ctx context.Context, req domain.TranscribeRequest) (string, error) {
	if len(req.Data) == 0 {
		return "", domain.ErrInvalidFile
	}
	if err := req.FileData.Validate(); err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = s.cfg.TranscribeModel
	}

	customerID, err := s.billing.ResolveCustomer(ctx, req.FileData.UserID, "")
	if err != nil {
		return "", err
	}

	// Billing counts whole seconds, rounded up.
	quantity := int64(math.Ceil(req.FileData.Duration))
	if err := s.billing.RecordUsage(ctx, customerID, quantity, req.FileData.IdempotencyKey); err != nil {
		return "", err
	}
	s.metrics.UsageRecords.Inc()

	text, err := s.upstream.Transcribe(ctx, req.FileName, req.Data, model, req.FileData.Prompt)
	if err != nil {
		s.metrics.TranscriptionErrors.Inc()
		return "", err
	}

	record := &domain.Record{
		ID:             s.genID.Generate(),
		SupabaseID:     req.FileData.UserID,
		StripeID:       customerID,
		Transcription:  text,
		FileSize:       req.FileData.Size,
		FileDuration:   req.FileData.Duration,
		FileType:       req.FileData.FileType,
		IdempotencyKey: req.FileData.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// A retry that already went through; the usage record was
			// deduped upstream by the same key.
			s.log.Info("duplicate idempotency key, record already stored",
				zap.String("idempotency_key", record.IdempotencyKey),
			)
			return text, nil
		}
		return "", err
	}
	// The log table is append-only history; a failed append does not
	// undo the live insert.
	if err := s.repo.AppendLog(ctx, s.db, record); err != nil {
		s.log.Warn("log append failed",
			zap.String("record_id", record.ID.String()),
			zap.Error(err),
		)
	}

	s.metrics.Transcriptions.Inc()
	s.metrics.TranscribedSeconds.Add(req.FileData.Duration)
	s.log.Info("transcription stored",
		zap.String("record_id", record.ID.String()),
		zap.String("user_id", req.FileData.UserID),
		zap.Float64("duration", req.FileData.Duration),
		zap.Int64("billed_seconds", quantity),
	)
	return text, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Record, error) {
	if userID == "" {
		return nil, billingdomain.ErrInvalidUser
	}
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *Service) ListBin(ctx context.Context, userID string) ([]domain.Record, error) {
	if userID == "" {
		return nil, billingdomain.ErrInvalidUser
	}
	return s.repo.ListBin(ctx, s.db, userID)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.SoftDelete(ctx, s.db, id)
}

func (s *Service) Restore(ctx context.Context, id snowflake.ID) error {
	return s.repo.Restore(ctx, s.db, id)
}

func (s *Service) Purge(ctx context.Context, id snowflake.ID) error {
	return s.repo.Purge(ctx, s.db, id)
}
