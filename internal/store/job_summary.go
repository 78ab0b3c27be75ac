package store

import (
	"context"
	"errors"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobSummary interface {
	List(ctx context.Context, filter *JobSummaryQueryFilter) (model.JobSummaryList, error)
	Get(ctx context.Context, jobID string) (*model.JobSummary, error)
	// Upsert overwrites the whole summary row for the job; summaries are
	// never partially updated.
	Upsert(ctx context.Context, summary model.JobSummary) (*model.JobSummary, error)
}

type JobSummaryQueryFilter BaseQuerier

func NewJobSummaryQueryFilter() *JobSummaryQueryFilter {
	return &JobSummaryQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *JobSummaryQueryFilter) WithReady() *JobSummaryQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("ready = ?", true)
	})
	return f
}

type JobSummaryStore struct {
	db *gorm.DB
}

// Make sure we conform to JobSummary interface
var _ JobSummary = (*JobSummaryStore)(nil)

func NewJobSummaryStore(db *gorm.DB) JobSummary {
	return &JobSummaryStore{db: db}
}

func (s *JobSummaryStore) List(ctx context.Context, filter *JobSummaryQueryFilter) (model.JobSummaryList, error) {
	var summaries model.JobSummaryList
	tx := s.getDB(ctx).Model(&summaries).Order("job_id ASC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&summaries); result.Error != nil {
		return nil, result.Error
	}
	return summaries, nil
}

func (s *JobSummaryStore) Get(ctx context.Context, jobID string) (*model.JobSummary, error) {
	var summary model.JobSummary
	result := s.getDB(ctx).First(&summary, "job_id = ?", jobID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &summary, nil
}

func (s *JobSummaryStore) Upsert(ctx context.Context, summary model.JobSummary) (*model.JobSummary, error) {
	result := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at",
			"assessment_count",
			"damage_summary",
			"measurements",
			"overall_severity",
			"overall_confidence",
			"ready",
		}),
	}).Create(&summary)
	if result.Error != nil {
		return nil, result.Error
	}
	return s.Get(ctx, summary.JobID)
}

func (s *JobSummaryStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
