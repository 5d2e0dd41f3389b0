package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrProviderUnavailable = errors.New("payment provider unavailable")

// CheckoutSession is the provider-side handle for a pending payment.
type CheckoutSession struct {
	ProviderRef string
	RedirectURL string
}

// Provider is the hosted payment API. Checkout creates a session the buyer
// is redirected to; settlement comes back through the confirm endpoint.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, orderID uuid.UUID, amountCents int64, currency, description string) (*CheckoutSession, error)
}
