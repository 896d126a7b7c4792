package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/katapod/transcribe/internal/billing/domain"
	"github.com/katapod/transcribe/internal/config"
	customerdomain "github.com/katapod/transcribe/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config  *config.Config
	Pricing *config.PricingHolder
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Mapping customerdomain.Repository
	Gateway domain.Gateway
}

type Service struct {
	cfg     *config.Config
	pricing *config.PricingHolder
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	mapping customerdomain.Repository
	gateway domain.Gateway
}

func New(p Params) domain.Service {
	return &Service{
		cfg:     p.Config,
		pricing: p.Pricing,
		db:      p.DB,
		log:     p.Log.Named("billing.service"),
		genID:   p.GenID,
		mapping: p.Mapping,
		gateway: p.Gateway,
	}
}

func (s *Service) PriceLookup(tier domain.Tier) (config.PriceIDs, error) {
	prices, ok := s.pricing.Get().Tiers[string(tier)]
	if !ok {
		return config.PriceIDs{}, domain.ErrInvalidTier
	}
	return prices, nil
}

func (s *Service) ResolveCustomer(ctx context.Context, userID, email string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", domain.ErrInvalidUser
	}

	mapping, err := s.mapping.FindByUserID(ctx, s.db, userID)
	if err == nil {
		return mapping.StripeID, nil
	}
	if !errors.Is(err, customerdomain.ErrMappingNotFound) {
		return "", err
	}

	stripeID, err := s.gateway.CreateCustomer(ctx, email, userID)
	if err != nil {
		return "", err
	}

	inserted, err := s.mapping.InsertIfAbsent(ctx, s.db, &customerdomain.Mapping{
		ID:        s.genID.Generate(),
		UserID:    userID,
		StripeID:  stripeID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	if !inserted {
		// A concurrent caller won the insert. Keep its row; the customer
		// we just created upstream is unused.
		existing, err := s.mapping.FindByUserID(ctx, s.db, userID)
		if err != nil {
			return "", err
		}
		s.log.Warn("discarding redundant provider customer",
			zap.String("user_id", userID),
			zap.String("unused_stripe_id", stripeID),
			zap.String("stripe_id", existing.StripeID),
		)
		return existing.StripeID, nil
	}

	s.log.Info("customer mapping created",
		zap.String("user_id", userID),
		zap.String("stripe_id", stripeID),
	)
	return stripeID, nil
}

func (s *Service) RecordUsage(ctx context.Context, customerID string, quantity int64, idempotencyKey string) error {
	if strings.TrimSpace(idempotencyKey) == "" {
		return domain.ErrInvalidIdempotencyKey
	}

	itemID, err := s.gateway.FindMeteredItem(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.gateway.RecordUsage(ctx, itemID, quantity, idempotencyKey); err != nil {
		return err
	}

	s.log.Info("usage recorded",
		zap.String("customer_id", customerID),
		zap.String("subscription_item", itemID),
		zap.Int64("quantity", quantity),
	)
	return nil
}

func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prices, err := s.PriceLookup(req.Tier)
	if err != nil {
		return nil, err
	}

	items, err := buildLineItems(prices, req.Period, req.Part)
	if err != nil {
		return nil, err
	}

	customerID, err := s.ResolveCustomer(ctx, req.UserID, req.Email)
	if err != nil {
		return nil, err
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, domain.CheckoutParams{
		CustomerID: customerID,
		LineItems:  items,
		SuccessURL: s.successURL(req.Tier, req.Period),
		CancelURL:  s.cfg.AppBaseURL + "/canceled",
	})
	if err != nil {
		return nil, err
	}

	return &domain.CheckoutResponse{URL: url, StripeID: customerID}, nil
}

func (s *Service) Portal(ctx context.Context, userID, email string) (string, error) {
	customerID, err := s.ResolveCustomer(ctx, userID, email)
	if err != nil {
		return "", err
	}
	return s.gateway.CreatePortalSession(ctx, customerID, s.cfg.AppBaseURL)
}

func (s *Service) UpcomingInvoice(ctx context.Context, userID string) (json.RawMessage, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}

	mapping, err := s.mapping.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.gateway.UpcomingInvoice(ctx, mapping.StripeID)
}

// buildLineItems assembles the checkout prices: the base plan unless the
// caller only wants the metered add-on, and the metered add-on unless the
// plan is yearly, in which case usage is sold in a follow-up session.
func buildLineItems(prices config.PriceIDs, period domain.Period, part domain.Part) ([]domain.LineItem, error) {
	var items []domain.LineItem

	if part != domain.PartUsage {
		base := prices.BaseMonthly
		if period == domain.PeriodYearly {
			base = prices.BaseYearly
		}
		if base == "" {
			return nil, domain.ErrInvalidPeriod
		}
		items = append(items, domain.LineItem{Price: base, Quantity: 1})
	}

	if period != domain.PeriodYearly {
		items = append(items, domain.LineItem{Price: prices.Usage})
	}

	return items, nil
}

func (s *Service) successURL(tier domain.Tier, period domain.Period) string {
	if period == domain.PeriodYearly {
		return fmt.Sprintf("%s/usagebilling/%s/monthly/usage", s.cfg.AppBaseURL, tier)
	}
	return s.cfg.AppBaseURL + "/success?session_id={CHECKOUT_SESSION_ID}"
}
