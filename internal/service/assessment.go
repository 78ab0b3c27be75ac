package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/adapters"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/photostore"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssessmentService assesses pending photos and aggregates per-job
// summaries.
type AssessmentService struct {
	store     store.Store
	estimator adapters.DamageEstimator
	photos    photostore.Store
	cfg       *config.PipelineConfig
	nowFunc   func() time.Time
}

func NewAssessmentService(s store.Store, estimator adapters.DamageEstimator, photos photostore.Store, cfg *config.PipelineConfig) *AssessmentService {
	return &AssessmentService{
		store:     s,
		estimator: estimator,
		photos:    photos,
		cfg:       cfg,
		nowFunc:   time.Now,
	}
}

// ListPendingPhotos returns photos not yet assessed, for one job or all
// jobs when jobID is empty. Photos whose binary cannot be resolved in the
// object store are skipped, not errored.
func (as *AssessmentService) ListPendingPhotos(ctx context.Context, jobID string) (model.PhotoList, error) {
	logger := zap.S().Named("assessment_service")

	filter := store.NewPhotoQueryFilter().WithPending()
	if jobID != "" {
		filter = filter.WithJobID(jobID)
	}

	photos, err := as.store.Photo().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending photos: %w", err)
	}

	pending := make(model.PhotoList, 0, len(photos))
	for i := range photos {
		if err := as.photos.Stat(ctx, photos[i].ObjectKey); err != nil {
			logger.Warnf("skipping photo %s: backing object %q not resolvable: %v", photos[i].ID, photos[i].ObjectKey, err)
			continue
		}
		pending = append(pending, photos[i])
	}

	logger.Infof("found %d photos pending assessment", len(pending))
	return pending, nil
}

// ProcessPendingPhotos assesses every pending photo. One photo's failure
// never aborts the batch.
func (as *AssessmentService) ProcessPendingPhotos(ctx context.Context, jobID string) (model.AssessmentList, error) {
	logger := zap.S().Named("assessment_service")

	pending, err := as.ListPendingPhotos(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		logger.Info("no pending photos to process")
		return model.AssessmentList{}, nil
	}

	assessments := make(model.AssessmentList, 0, len(pending))
	for i := range pending {
		assessment, err := as.Assess(ctx, &pending[i])
		if err != nil {
			logger.Errorf("failed to assess photo %s: %v", pending[i].ID, err)
			continue
		}
		assessments = append(assessments, *assessment)
	}

	logger.Infof("assessed %d photos", len(assessments))
	return assessments, nil
}

// Assess runs the damage estimator on one photo, persists the assessment
// and flips the photo to completed. The status flip and the assessment
// insert happen in one transaction; losing the race to another assessor
// returns ErrPhotoAlreadyAssessed and leaves no partial state.
func (as *AssessmentService) Assess(ctx context.Context, photo *model.Photo) (*model.Assessment, error) {
	estimate, err := as.estimator.Estimate(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("damage estimation failed for photo %s: %w", photo.ID, err)
	}

	assessment := model.Assessment{
		ID:                uuid.New(),
		CreatedAt:         as.nowFunc().UTC(),
		JobID:             photo.JobID,
		PhotoID:           photo.ID,
		Damages:           model.MakeJSONField(estimate.Damages),
		Measurements:      model.MakeJSONField(estimate.Measurements),
		OverallSeverity:   round2(meanOf(estimate.Damages, func(d model.DamageDetail) float64 { return d.Severity })),
		OverallConfidence: round2(meanOf(estimate.Damages, func(d model.DamageDetail) float64 { return d.Confidence })),
	}

	txCtx, err := as.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction: %w", err)
	}

	created, err := as.store.Assessment().Create(txCtx, assessment)
	if err != nil {
		_, _ = store.Rollback(txCtx)
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrPhotoAlreadyAssessed(photo.ID)
		}
		return nil, fmt.Errorf("failed to persist assessment: %w", err)
	}

	if err := as.store.Photo().MarkCompleted(txCtx, photo.ID, assessment.ID); err != nil {
		_, _ = store.Rollback(txCtx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPhotoAlreadyAssessed(photo.ID)
		}
		return nil, fmt.Errorf("failed to mark photo completed: %w", err)
	}

	if _, err := store.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit assessment: %w", err)
	}

	metrics.IncreasePhotosAssessedCount()
	return created, nil
}

// Summarize recomputes the aggregate summary for a job from every
// assessment on record and overwrites the stored summary. A job without
// assessments yields ErrNoAssessments.
func (as *AssessmentService) Summarize(ctx context.Context, jobID string) (*model.JobSummary, error) {
	logger := zap.S().Named("assessment_service")

	assessments, err := as.store.Assessment().List(ctx, store.NewAssessmentQueryFilter().WithJobID(jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments for job %s: %w", jobID, err)
	}
	if len(assessments) == 0 {
		logger.Warnf("no assessments found for job %s", jobID)
		return nil, NewErrNoAssessments(jobID)
	}

	type accumulator struct {
		severity     float64
		confidence   float64
		areaFraction float64
		count        int
	}
	perCategory := make(map[string]*accumulator)
	var lists model.MeasurementLists
	var severitySum, confidenceSum float64

	for i := range assessments {
		severitySum += assessments[i].OverallSeverity
		confidenceSum += assessments[i].OverallConfidence

		for category, detail := range assessments[i].Damages.Data {
			acc, ok := perCategory[category]
			if !ok {
				acc = &accumulator{}
				perCategory[category] = acc
			}
			acc.severity += detail.Severity
			acc.confidence += detail.Confidence
			acc.areaFraction += detail.AreaFraction
			acc.count++
		}

		m := assessments[i].Measurements.Data
		if m.Roof != nil {
			lists.Roof = append(lists.Roof, *m.Roof)
		}
		if m.Siding != nil {
			lists.Siding = append(lists.Siding, *m.Siding)
		}
		if m.Structural != nil {
			lists.Structural = append(lists.Structural, *m.Structural)
		}
		if m.Water != nil {
			lists.Water = append(lists.Water, *m.Water)
		}
		if m.Debris != nil {
			lists.Debris = append(lists.Debris, *m.Debris)
		}
	}

	damageSummary := make(map[string]model.DamageAverages, len(perCategory))
	for category, acc := range perCategory {
		n := float64(acc.count)
		damageSummary[category] = model.DamageAverages{
			Severity:     round2(acc.severity / n),
			Confidence:   round2(acc.confidence / n),
			AreaFraction: round2(acc.areaFraction / n),
			PhotoCount:   acc.count,
		}
	}

	now := as.nowFunc().UTC()
	summary := model.JobSummary{
		JobID:             jobID,
		CreatedAt:         now,
		UpdatedAt:         &now,
		AssessmentCount:   len(assessments),
		DamageSummary:     model.MakeJSONField(damageSummary),
		Measurements:      model.MakeJSONField(lists),
		OverallSeverity:   round2(severitySum / float64(len(assessments))),
		OverallConfidence: round2(confidenceSum / float64(len(assessments))),
		Ready:             len(assessments) >= as.cfg.ReadinessMinAssessments,
	}

	stored, err := as.store.JobSummary().Upsert(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to persist summary for job %s: %w", jobID, err)
	}

	logger.Infof("summarized job %s: %d assessments, overall severity %.2f", jobID, stored.AssessmentCount, stored.OverallSeverity)
	return stored, nil
}

func meanOf(damages map[string]model.DamageDetail, value func(model.DamageDetail) float64) float64 {
	if len(damages) == 0 {
		return 0
	}
	var sum float64
	for _, d := range damages {
		sum += value(d)
	}
	return sum / float64(len(damages))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
