package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultPaymentLatency matches the round trip of the hosted checkout it stands in for.
const DefaultPaymentLatency = 1500 * time.Millisecond

var ErrPaymentDeclined = errors.New("payment declined by gateway")

// PaymentConfirmation подтверждает успешное списание.
type PaymentConfirmation struct {
	Reference string `json:"reference"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
}

// PaymentGateway списывает взнос. Вызов может длиться секунды и должен уважать ctx.
type PaymentGateway interface {
	Charge(ctx context.Context, amount int) (*PaymentConfirmation, error)
}

// SimulatedGateway заменяет реальный процессинг: ждёт фиксированную задержку
// и всегда подтверждает платёж новой уникальной ссылкой.
type SimulatedGateway struct {
	clock   clockwork.Clock
	latency time.Duration
}

func NewSimulatedGateway(clock clockwork.Clock, latency time.Duration) *SimulatedGateway {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SimulatedGateway{clock: clock, latency: latency}
}

func (g *SimulatedGateway) Charge(ctx context.Context, amount int) (*PaymentConfirmation, error) {
	if g.latency > 0 {
		timer := g.clock.NewTimer(g.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.Chan():
		}
	}

	return &PaymentConfirmation{
		Reference: newPaymentReference(),
		Amount:    amount,
		Currency:  Currency,
	}, nil
}

func newPaymentReference() string {
	return "pi_" + uuid.NewString()
}
