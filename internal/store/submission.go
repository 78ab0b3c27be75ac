package store

import (
	"context"
	"errors"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"gorm.io/gorm"
)

type Submission interface {
	List(ctx context.Context, filter *SubmissionQueryFilter) (model.SubmissionList, error)
	GetByJob(ctx context.Context, jobID string) (*model.Submission, error)
	Create(ctx context.Context, submission model.Submission) (*model.Submission, error)
	Update(ctx context.Context, submission model.Submission) (*model.Submission, error)
}

type SubmissionQueryFilter BaseQuerier

func NewSubmissionQueryFilter() *SubmissionQueryFilter {
	return &SubmissionQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *SubmissionQueryFilter) WithStatus(status string) *SubmissionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

type SubmissionStore struct {
	db *gorm.DB
}

// Make sure we conform to Submission interface
var _ Submission = (*SubmissionStore)(nil)

func NewSubmissionStore(db *gorm.DB) Submission {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) List(ctx context.Context, filter *SubmissionQueryFilter) (model.SubmissionList, error) {
	var submissions model.SubmissionList
	tx := s.getDB(ctx).Model(&submissions).Order("submitted_at ASC, id ASC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&submissions); result.Error != nil {
		return nil, result.Error
	}
	return submissions, nil
}

func (s *SubmissionStore) GetByJob(ctx context.Context, jobID string) (*model.Submission, error) {
	var submission model.Submission
	result := s.getDB(ctx).First(&submission, "job_id = ?", jobID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &submission, nil
}

func (s *SubmissionStore) Create(ctx context.Context, submission model.Submission) (*model.Submission, error) {
	if result := s.getDB(ctx).Create(&submission); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &submission, nil
}

func (s *SubmissionStore) Update(ctx context.Context, submission model.Submission) (*model.Submission, error) {
	if result := s.getDB(ctx).Model(&model.Submission{}).Where("id = ?", submission.ID).Updates(&submission); result.Error != nil {
		return nil, result.Error
	}
	return s.GetByJob(ctx, submission.JobID)
}

func (s *SubmissionStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
