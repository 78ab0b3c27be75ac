package store

import (
	"context"
	"errors"
	"time"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Claim interface {
	List(ctx context.Context, filter *ClaimQueryFilter) (model.ClaimList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Claim, error)
	GetByJob(ctx context.Context, jobID string) (*model.Claim, error)
	// Create relies on the unique job index so that at most one claim
	// ever exists per job; a lost race surfaces as ErrDuplicateKey.
	Create(ctx context.Context, claim model.Claim) (*model.Claim, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type ClaimQueryFilter BaseQuerier

func NewClaimQueryFilter() *ClaimQueryFilter {
	return &ClaimQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *ClaimQueryFilter) WithStatus(status string) *ClaimQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

type ClaimStore struct {
	db *gorm.DB
}

// Make sure we conform to Claim interface
var _ Claim = (*ClaimStore)(nil)

func NewClaimStore(db *gorm.DB) Claim {
	return &ClaimStore{db: db}
}

func (c *ClaimStore) List(ctx context.Context, filter *ClaimQueryFilter) (model.ClaimList, error) {
	var claims model.ClaimList
	tx := c.getDB(ctx).Model(&claims).Order("created_at ASC, id ASC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&claims); result.Error != nil {
		return nil, result.Error
	}
	return claims, nil
}

func (c *ClaimStore) Get(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	result := c.getDB(ctx).First(&claim, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &claim, nil
}

func (c *ClaimStore) GetByJob(ctx context.Context, jobID string) (*model.Claim, error) {
	var claim model.Claim
	result := c.getDB(ctx).First(&claim, "job_id = ?", jobID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &claim, nil
}

func (c *ClaimStore) Create(ctx context.Context, claim model.Claim) (*model.Claim, error) {
	if result := c.getDB(ctx).Create(&claim); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &claim, nil
}

func (c *ClaimStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	now := time.Now()
	result := c.getDB(ctx).Model(&model.Claim{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (c *ClaimStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return c.db
}
