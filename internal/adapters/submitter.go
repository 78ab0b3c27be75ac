package adapters

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

// SubmissionReceipt is what the claims system echoes back on submission.
// Completion is discovered later by polling.
type SubmissionReceipt struct {
	ExternalRef             string
	EstimatedProcessingDays int
}

// ClaimSubmitter hands a formatted claim to the external claims system.
type ClaimSubmitter interface {
	Submit(ctx context.Context, claim *model.Claim) (*SubmissionReceipt, error)
}

type SimulatedSubmitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Make sure we conform to ClaimSubmitter interface
var _ ClaimSubmitter = (*SimulatedSubmitter)(nil)

func NewSimulatedSubmitter(seed int64) *SimulatedSubmitter {
	return &SimulatedSubmitter{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, claim *model.Claim) (*SubmissionReceipt, error) {
	if claim == nil {
		return nil, fmt.Errorf("no claim to submit")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &SubmissionReceipt{
		ExternalRef:             fmt.Sprintf("XM-%d", 10000+s.rng.Intn(90000)),
		EstimatedProcessingDays: 3 + s.rng.Intn(8),
	}, nil
}
