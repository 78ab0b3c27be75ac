package scheduler

import (
	"context"
	"time"

	jitterbug "github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/service"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

// Scheduler drives the claims pipeline end to end on a jittered interval:
// assess pending photos, summarize affected jobs, format and submit claims
// for ready jobs, poll submission statuses, process payments for approved
// claims. Every record produced is idempotent, so a crashed pass simply
// resumes on the next tick.
type Scheduler struct {
	assessments *service.AssessmentService
	claims      *service.ClaimService
	payments    *service.PaymentService
	interval    time.Duration
}

func New(
	assessments *service.AssessmentService,
	claims *service.ClaimService,
	payments *service.PaymentService,
	interval time.Duration,
) *Scheduler {
	return &Scheduler{
		assessments: assessments,
		claims:      claims,
		payments:    payments,
		interval:    interval,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	logger := zap.S().Named("scheduler")
	logger.Infof("starting claims pipeline, interval %s", s.interval)

	ticker := jitterbug.New(s.interval, &jitterbug.Norm{Stdev: 30 * time.Second, Mean: 0})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("claims pipeline stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single pipeline pass. Stage failures are logged and do
// not stop the remaining stages, downstream stages simply see less work.
func (s *Scheduler) RunOnce(ctx context.Context) {
	logger := zap.S().Named("scheduler")

	assessments, err := s.assessments.ProcessPendingPhotos(ctx, "")
	if err != nil {
		logger.Errorw("photo assessment stage failed", "error", err)
	} else if len(assessments) > 0 {
		logger.Infof("assessed %d photos", len(assessments))
	}

	// Re-summarize every job touched by this pass.
	jobs := make(map[string]struct{})
	for _, a := range assessments {
		jobs[a.JobID] = struct{}{}
	}
	for jobID := range jobs {
		if _, err := s.assessments.Summarize(ctx, jobID); err != nil {
			logger.Errorw("job summary stage failed", "job_id", jobID, "error", err)
		}
	}

	submissions, err := s.claims.ProcessReadyJobs(ctx)
	if err != nil {
		logger.Errorw("claim submission stage failed", "error", err)
	} else if len(submissions) > 0 {
		logger.Infof("submitted %d claims", len(submissions))
	}

	checked, err := s.claims.CheckAllStatuses(ctx)
	if err != nil {
		logger.Errorw("status tracking stage failed", "error", err)
	} else {
		approved := 0
		for i := range checked {
			if checked[i].Status == model.SubmissionStatusApproved {
				approved++
			}
		}
		if approved > 0 {
			logger.Infof("%d submissions approved", approved)
		}
	}

	payments, err := s.payments.ProcessApprovedClaims(ctx)
	if err != nil {
		logger.Errorw("payment stage failed", "error", err)
	} else if len(payments) > 0 {
		logger.Infof("processed %d payments", len(payments))
	}
}
