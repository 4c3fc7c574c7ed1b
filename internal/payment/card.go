package payment

import (
	"context"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/logger"
)

// Intent is the gateway's handle for a not-yet-settled card charge. Creating
// one reserves nothing financially; only a confirmed intent moves money.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Gateway is the external card processor. Confirmation may arrive from a
// different request than the one that created the intent (browser redirect
// or webhook), so implementations must key everything off the intent id.
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (*Intent, error)
	// ConfirmIntent returns domain.ErrCardDeclined or domain.ErrIntentExpired
	// on the gateway's two refusal outcomes.
	ConfirmIntent(ctx context.Context, intentID string) (*Receipt, error)
}

// CardSettler drives the two-phase card rail. Begin only creates the intent;
// the authoritative settlement happens when Confirm succeeds.
type CardSettler struct {
	gateway  Gateway
	currency string
}

func NewCardSettler(gateway Gateway, currency string) *CardSettler {
	return &CardSettler{gateway: gateway, currency: currency}
}

func (s *CardSettler) Method() domain.PaymentMethod {
	return domain.PaymentMethodCard
}

func (s *CardSettler) Begin(ctx context.Context, rsv *domain.Reservation) (*Result, error) {
	intent, err := s.gateway.CreateIntent(ctx, rsv.AmountCents, s.currency)
	if err != nil {
		return nil, err
	}
	return &Result{
		PaymentRef:   intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// Confirm settles a previously created intent. The orchestrator guards
// re-entry with the reservation's current state before calling this.
func (s *CardSettler) Confirm(ctx context.Context, intentID string) (*Receipt, error) {
	return s.gateway.ConfirmIntent(ctx, intentID)
}

// Refund is the recorded gap in the card rail: the processor integration has
// no charge-reversal call, so a post-confirmation cancellation releases the
// slot without returning the money.
func (s *CardSettler) Refund(ctx context.Context, rsv *domain.Reservation) error {
	logger.WarnContext(ctx, "card refund not supported; no charge reversal issued",
		"reservation_id", rsv.ID, "amount_cents", rsv.AmountCents)
	return nil
}
