package checkout

import (
	"context"

	pkgstripe "github.com/campuseats/campuseats-backend/pkg/stripe"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
)

// PaymentIntentClient exposes the subset of Stripe operations checkout and the
// payment sweeper need.
type PaymentIntentClient interface {
	Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
	Cancel(ctx context.Context, intentID string) error
}

type stripeClientWrapper struct{}

// NewStripeClient wraps the configured Stripe client so checkout can be tested
// against a fake gateway.
func NewStripeClient(api *pkgstripe.Client) PaymentIntentClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

func (w *stripeClientWrapper) Get(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return paymentintent.Get(intentID, params)
}

func (w *stripeClientWrapper) Cancel(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	_, err := paymentintent.Cancel(intentID, params)
	return err
}
