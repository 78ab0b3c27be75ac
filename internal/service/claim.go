package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/adapters"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/pricing"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimService formats ready job summaries into priced claims, submits
// them, and advances submission status.
type ClaimService struct {
	store     store.Store
	submitter adapters.ClaimSubmitter
	table     pricing.Table
	nowFunc   func() time.Time
}

func NewClaimService(s store.Store, submitter adapters.ClaimSubmitter, table pricing.Table) *ClaimService {
	return &ClaimService{
		store:     s,
		submitter: submitter,
		table:     table,
		nowFunc:   time.Now,
	}
}

// ListReadyJobs returns the jobs whose summary is ready and for which no
// claim exists yet.
func (cs *ClaimService) ListReadyJobs(ctx context.Context) ([]string, error) {
	logger := zap.S().Named("claim_service")

	summaries, err := cs.store.JobSummary().List(ctx, store.NewJobSummaryQueryFilter().WithReady())
	if err != nil {
		return nil, fmt.Errorf("failed to list ready summaries: %w", err)
	}

	ready := make([]string, 0, len(summaries))
	for i := range summaries {
		_, err := cs.store.Claim().GetByJob(ctx, summaries[i].JobID)
		if err == nil {
			continue // already claimed
		}
		if !errors.Is(err, store.ErrRecordNotFound) {
			logger.Errorf("failed to look up claim for job %s: %v", summaries[i].JobID, err)
			continue
		}
		ready = append(ready, summaries[i].JobID)
	}

	logger.Infof("found %d jobs ready for claim formatting", len(ready))
	return ready, nil
}

// Format converts a job summary into a priced claim. It is a pure
// transform: no store access, no external call.
func (cs *ClaimService) Format(summary *model.JobSummary) (*model.Claim, error) {
	if summary == nil {
		return nil, fmt.Errorf("no summary to format")
	}

	items := cs.table.LineItems(summary.Measurements.Data)
	subtotal, tax, total := cs.table.Totals(items)

	damageTypes := make([]string, 0, len(summary.DamageSummary.Data))
	for category := range summary.DamageSummary.Data {
		damageTypes = append(damageTypes, category)
	}
	sort.Strings(damageTypes)

	now := cs.nowFunc().UTC()
	claim := &model.Claim{
		ID:        uuid.New(),
		CreatedAt: now,
		JobID:     summary.JobID,
		Property: model.MakeJSONField(model.PropertyInfo{
			Address:       "123 Storm Damage St, Anytown, USA",
			Type:          "Residential",
			YearBuilt:     1985,
			SquareFootage: 2200,
		}),
		Damage: model.MakeJSONField(model.DamageInfo{
			EventType:       "Storm",
			DateOfLoss:      now.Add(-72 * time.Hour),
			OverallSeverity: summary.OverallSeverity,
			DamageTypes:     damageTypes,
		}),
		LineItems: model.MakeJSONField(items),
		Subtotal:  subtotal,
		TaxRate:   cs.table.TaxRate(),
		Tax:       tax,
		Total:     total,
		Status:    model.ClaimStatusReady,
	}
	return claim, nil
}

// Submit hands the claim to the claims system, persists it if it has not
// been persisted yet and records the submission result.
func (cs *ClaimService) Submit(ctx context.Context, claim *model.Claim) (*model.Submission, error) {
	logger := zap.S().Named("claim_service")

	receipt, err := cs.submitter.Submit(ctx, claim)
	if err != nil {
		return nil, fmt.Errorf("claim submission failed for job %s: %w", claim.JobID, err)
	}

	if _, err := cs.store.Claim().Create(ctx, *claim); err != nil {
		if !errors.Is(err, store.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to persist claim for job %s: %w", claim.JobID, err)
		}
		// claim already persisted for this job; keep the stored one
		stored, err := cs.store.Claim().GetByJob(ctx, claim.JobID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing claim for job %s: %w", claim.JobID, err)
		}
		claim = stored
	}

	submission := model.Submission{
		ID:                      uuid.New(),
		ClaimID:                 claim.ID,
		JobID:                   claim.JobID,
		ExternalRef:             receipt.ExternalRef,
		SubmittedAt:             cs.nowFunc().UTC(),
		EstimatedProcessingDays: receipt.EstimatedProcessingDays,
		EstimatedPayout:         claim.Total,
		Status:                  model.SubmissionStatusSubmitted,
	}

	created, err := cs.store.Submission().Create(ctx, submission)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrClaimAlreadySubmitted(claim.JobID)
		}
		return nil, fmt.Errorf("failed to persist submission for job %s: %w", claim.JobID, err)
	}

	if err := cs.store.Claim().UpdateStatus(ctx, claim.ID, model.ClaimStatusSubmitted); err != nil {
		logger.Errorf("failed to update claim status for job %s: %v", claim.JobID, err)
	}

	metrics.IncreaseClaimsSubmittedCount()
	logger.Infof("submitted claim %s for job %s: ref %s, est. %d days, payout estimate %.2f",
		claim.ID, claim.JobID, created.ExternalRef, created.EstimatedProcessingDays, created.EstimatedPayout)
	return created, nil
}

// ProcessReadyJobs formats and submits a claim for every ready job. One
// job's failure never aborts the batch.
func (cs *ClaimService) ProcessReadyJobs(ctx context.Context) (model.SubmissionList, error) {
	logger := zap.S().Named("claim_service")

	ready, err := cs.ListReadyJobs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ready) == 0 {
		logger.Info("no jobs ready for claim submission")
		return model.SubmissionList{}, nil
	}

	submissions := make(model.SubmissionList, 0, len(ready))
	for _, jobID := range ready {
		summary, err := cs.store.JobSummary().Get(ctx, jobID)
		if err != nil {
			logger.Errorf("failed to load summary for job %s: %v", jobID, err)
			continue
		}
		claim, err := cs.Format(summary)
		if err != nil {
			logger.Errorf("failed to format claim for job %s: %v", jobID, err)
			continue
		}
		claim.ContractorID = cs.lookupContractor(ctx, jobID)
		submission, err := cs.Submit(ctx, claim)
		if err != nil {
			logger.Errorf("failed to submit claim for job %s: %v", jobID, err)
			continue
		}
		submissions = append(submissions, *submission)
	}

	logger.Infof("submitted %d claims", len(submissions))
	return submissions, nil
}

// lookupContractor resolves the contractor who documented the job from
// its photo records.
func (cs *ClaimService) lookupContractor(ctx context.Context, jobID string) string {
	photos, err := cs.store.Photo().List(ctx, store.NewPhotoQueryFilter().WithJobID(jobID))
	if err != nil || len(photos) == 0 {
		return ""
	}
	return photos[0].ContractorID
}

// CheckStatus polls the submission for a job and advances it to Approved
// once the estimated processing time has elapsed. The transition is a side
// effect of the check; callers treat this as a progression trigger, not a
// pure query.
func (cs *ClaimService) CheckStatus(ctx context.Context, jobID string) (*model.Submission, error) {
	logger := zap.S().Named("claim_service")

	submission, err := cs.store.Submission().GetByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrSubmissionNotFound(jobID)
		}
		return nil, fmt.Errorf("failed to load submission for job %s: %w", jobID, err)
	}

	if submission.Status != model.SubmissionStatusSubmitted {
		return submission, nil
	}

	now := cs.nowFunc().UTC()
	elapsed := now.Sub(submission.SubmittedAt)
	if elapsed < time.Duration(submission.EstimatedProcessingDays)*24*time.Hour {
		return submission, nil
	}

	payout := submission.EstimatedPayout
	submission.Status = model.SubmissionStatusApproved
	submission.ApprovedAt = &now
	submission.PayoutAmount = &payout
	submission.UpdatedAt = &now

	updated, err := cs.store.Submission().Update(ctx, *submission)
	if err != nil {
		return nil, fmt.Errorf("failed to approve submission for job %s: %w", jobID, err)
	}

	metrics.IncreaseClaimsApprovedCount()
	logger.Infof("submission for job %s approved after %d days, payout %.2f", jobID, submission.EstimatedProcessingDays, payout)
	return updated, nil
}

// CheckAllStatuses advances every submission still in Submitted state.
func (cs *ClaimService) CheckAllStatuses(ctx context.Context) (model.SubmissionList, error) {
	logger := zap.S().Named("claim_service")

	submissions, err := cs.store.Submission().List(ctx, store.NewSubmissionQueryFilter().WithStatus(model.SubmissionStatusSubmitted))
	if err != nil {
		return nil, fmt.Errorf("failed to list submitted claims: %w", err)
	}

	checked := make(model.SubmissionList, 0, len(submissions))
	for i := range submissions {
		submission, err := cs.CheckStatus(ctx, submissions[i].JobID)
		if err != nil {
			logger.Errorf("failed to check submission status for job %s: %v", submissions[i].JobID, err)
			continue
		}
		checked = append(checked, *submission)
	}
	return checked, nil
}
