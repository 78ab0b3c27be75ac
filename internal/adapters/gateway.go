package adapters

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway disburses a payment to a contractor and returns the
// transaction reference of the payment rail.
type PaymentGateway interface {
	Disburse(ctx context.Context, contractorID string, amount float64) (string, error)
}

type SimulatedGateway struct{}

// Make sure we conform to PaymentGateway interface
var _ PaymentGateway = (*SimulatedGateway)(nil)

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Disburse(ctx context.Context, contractorID string, amount float64) (string, error) {
	ref := uuid.NewString()
	zap.S().Named("gateway").Infof("simulated disbursement of %.2f to contractor %q, ref %s", amount, contractorID, ref)
	return ref, nil
}
