// Package stripe implements the billing gateway on the Stripe API.
package stripe

import (
	"context"
	"encoding/json"

	"github.com/katapod/transcribe/internal/billing/domain"
	"github.com/katapod/transcribe/internal/config"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"go.uber.org/zap"
)

type gateway struct {
	sc  *client.API
	log *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) domain.Gateway {
	sc := &client.API{}
	sc.Init(cfg.StripeAPIKey, nil)
	return &gateway{
		sc:  sc,
		log: logger.Named("billing.stripe"),
	}
}

func (g *gateway) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("supabaseId", userID)

	cus, err := g.sc.Customers.New(params)
	if err != nil {
		return "", err
	}
	g.log.Info("customer created", zap.String("stripe_id", cus.ID))
	return cus.ID, nil
}

func (g *gateway) FindMeteredItem(ctx context.Context, customerID string) (string, error) {
	params := &stripe.SubscriptionListParams{
		Customer: customerID,
	}
	params.Context = ctx

	iter := g.sc.Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		if sub.Items == nil {
			continue
		}
		for _, item := range sub.Items.Data {
			if item.Price == nil || item.Price.Recurring == nil {
				continue
			}
			if item.Price.Recurring.UsageType == stripe.PriceRecurringUsageTypeMetered {
				return item.ID, nil
			}
		}
	}
	if err := iter.Err(); err != nil {
		return "", err
	}
	return "", domain.ErrNoMeteredItem
}

func (g *gateway) RecordUsage(ctx context.Context, itemID string, quantity int64, idempotencyKey string) error {
	params := &stripe.UsageRecordParams{
		SubscriptionItem: stripe.String(itemID),
		Quantity:         stripe.Int64(quantity),
		Action:           stripe.String(stripe.UsageRecordActionIncrement),
	}
	params.Context = ctx
	// The provider dedups retried reports carrying the same key.
	params.SetIdempotencyKey(idempotencyKey)

	_, err := g.sc.UsageRecords.New(params)
	return err
}

func (g *gateway) CreateCheckoutSession(ctx context.Context, p domain.CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	for _, item := range p.LineItems {
		li := &stripe.CheckoutSessionLineItemParams{
			Price: stripe.String(item.Price),
		}
		if item.Quantity > 0 {
			li.Quantity = stripe.Int64(item.Quantity)
		}
		params.LineItems = append(params.LineItems, li)
	}

	sess, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *gateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := g.sc.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *gateway) UpcomingInvoice(ctx context.Context, customerID string) (json.RawMessage, error) {
	params := &stripe.InvoiceParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	inv, err := g.sc.Invoices.GetNext(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(inv)
}
