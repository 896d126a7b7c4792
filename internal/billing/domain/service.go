package domain

import (
	"context"
	"encoding/json"

	"github.com/katapod/transcribe/internal/config"
)

// Gateway abstracts the billing provider. The production implementation
// talks to Stripe; tests substitute a mock.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	// FindMeteredItem returns the first metered subscription item across
	// the customer's subscriptions, or ErrNoMeteredItem.
	FindMeteredItem(ctx context.Context, customerID string) (string, error)
	RecordUsage(ctx context.Context, itemID string, quantity int64, idempotencyKey string) error
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	UpcomingInvoice(ctx context.Context, customerID string) (json.RawMessage, error)
}

type Service interface {
	PriceLookup(tier Tier) (config.PriceIDs, error)
	// ResolveCustomer returns the provider customer id for the user,
	// creating it on first use.
	ResolveCustomer(ctx context.Context, userID, email string) (string, error)
	RecordUsage(ctx context.Context, customerID string, quantity int64, idempotencyKey string) error
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
	Portal(ctx context.Context, userID, email string) (string, error)
	UpcomingInvoice(ctx context.Context, userID string) (json.RawMessage, error)
}
