package store

import (
	"context"
	"errors"
	"time"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Photo interface {
	List(ctx context.Context, filter *PhotoQueryFilter) (model.PhotoList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Photo, error)
	Create(ctx context.Context, photo model.Photo) (*model.Photo, error)
	// MarkCompleted flips a pending photo to completed and stores the
	// back-reference to its assessment. Returns ErrRecordNotFound when
	// the photo is absent or no longer pending, making the flip an
	// atomic claim.
	MarkCompleted(ctx context.Context, id uuid.UUID, assessmentID uuid.UUID) error
}

type PhotoQueryFilter BaseQuerier

func NewPhotoQueryFilter() *PhotoQueryFilter {
	return &PhotoQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *PhotoQueryFilter) WithJobID(jobID string) *PhotoQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", jobID)
	})
	return f
}

func (f *PhotoQueryFilter) WithPending() *PhotoQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status <> ?", model.PhotoStatusCompleted)
	})
	return f
}

type PhotoStore struct {
	db *gorm.DB
}

// Make sure we conform to Photo interface
var _ Photo = (*PhotoStore)(nil)

func NewPhotoStore(db *gorm.DB) Photo {
	return &PhotoStore{db: db}
}

func (p *PhotoStore) List(ctx context.Context, filter *PhotoQueryFilter) (model.PhotoList, error) {
	var photos model.PhotoList
	tx := p.getDB(ctx).Model(&photos).Order("created_at ASC, id ASC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&photos); result.Error != nil {
		return nil, result.Error
	}
	return photos, nil
}

func (p *PhotoStore) Get(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	var photo model.Photo
	result := p.getDB(ctx).First(&photo, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &photo, nil
}

func (p *PhotoStore) Create(ctx context.Context, photo model.Photo) (*model.Photo, error) {
	if result := p.getDB(ctx).Create(&photo); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &photo, nil
}

func (p *PhotoStore) MarkCompleted(ctx context.Context, id uuid.UUID, assessmentID uuid.UUID) error {
	now := time.Now()
	result := p.getDB(ctx).Model(&model.Photo{}).
		Where("id = ? AND status <> ?", id, model.PhotoStatusCompleted).
		Updates(map[string]any{
			"status":        model.PhotoStatusCompleted,
			"assessment_id": assessmentID,
			"updated_at":    &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *PhotoStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
