package ports

import "context"

// PaymentIntent is the processor's handle for an authorized-but-not-captured
// charge. ClientSecret is passed through to the buyer's client to complete
// authorization; this core never interprets it.
type PaymentIntent struct {
	Ref          string
	ClientSecret string
}

// PaymentGateway abstracts the external payment processor. CreateIntent must
// honour ctx cancellation: the processor is the only dependency with
// unbounded latency, so callers pass a deadline.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string) (*PaymentIntent, error)
}
