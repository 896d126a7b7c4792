package domain

import "errors"

var (
	ErrInvalidTier           = errors.New("invalid_tier")
	ErrInvalidPeriod         = errors.New("invalid_period")
	ErrInvalidPart           = errors.New("invalid_part")
	ErrInvalidUser           = errors.New("invalid_user")
	ErrInvalidIdempotencyKey = errors.New("invalid_idempotency_key")
	ErrNoMeteredItem         = errors.New("no_metered_subscription_item")
)

type Tier string

const (
	TierBasic    Tier = "basic"
	TierPro      Tier = "pro"
	TierBusiness Tier = "business"
)

type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

type Part string

const (
	PartBase  Part = "base"
	PartUsage Part = "usage"
)

type CheckoutRequest struct {
	Tier   Tier   `json:"subscription"`
	Period Period `json:"period"`
	Part   Part   `json:"part"`
	UserID string `json:"supabaseId"`
	Email  string `json:"email"`
}

func (r CheckoutRequest) Validate() error {
	if r.UserID == "" {
		return ErrInvalidUser
	}
	switch r.Period {
	case PeriodMonthly, PeriodYearly:
	default:
		return ErrInvalidPeriod
	}
	switch r.Part {
	case PartBase, PartUsage:
	default:
		return ErrInvalidPart
	}
	return nil
}

type CheckoutResponse struct {
	URL      string `json:"url"`
	StripeID string `json:"stripeId"`
}

// LineItem is one price on a checkout session. Quantity is zero for
// metered prices, where the provider forbids a fixed quantity.
type LineItem struct {
	Price    string
	Quantity int64
}

// CheckoutParams is the provider-facing shape of a checkout session.
type CheckoutParams struct {
	CustomerID string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}
