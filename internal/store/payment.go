package store

import (
	"context"
	"errors"
	"time"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"gorm.io/gorm"
)

type Payment interface {
	List(ctx context.Context, filter *PaymentQueryFilter) (model.PaymentList, error)
	GetByJob(ctx context.Context, jobID string) (*model.Payment, error)
	// Create relies on the unique job index for the at-most-once payment
	// guarantee; a second create for the same job returns ErrDuplicateKey.
	Create(ctx context.Context, payment model.Payment) (*model.Payment, error)
	CreateNotification(ctx context.Context, notification model.Notification) (*model.Notification, error)
	CreateReport(ctx context.Context, report model.PaymentReport) (*model.PaymentReport, error)
}

type PaymentQueryFilter BaseQuerier

func NewPaymentQueryFilter() *PaymentQueryFilter {
	return &PaymentQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

// WithPaidBetween keeps payments whose payment date falls in the closed
// interval [from, to].
func (f *PaymentQueryFilter) WithPaidBetween(from, to time.Time) *PaymentQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("paid_at >= ? AND paid_at <= ?", from, to)
	})
	return f
}

type PaymentStore struct {
	db *gorm.DB
}

// Make sure we conform to Payment interface
var _ Payment = (*PaymentStore)(nil)

func NewPaymentStore(db *gorm.DB) Payment {
	return &PaymentStore{db: db}
}

func (p *PaymentStore) List(ctx context.Context, filter *PaymentQueryFilter) (model.PaymentList, error) {
	var payments model.PaymentList
	tx := p.getDB(ctx).Model(&payments).Order("paid_at ASC, id ASC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&payments); result.Error != nil {
		return nil, result.Error
	}
	return payments, nil
}

func (p *PaymentStore) GetByJob(ctx context.Context, jobID string) (*model.Payment, error) {
	var payment model.Payment
	result := p.getDB(ctx).First(&payment, "job_id = ?", jobID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &payment, nil
}

func (p *PaymentStore) Create(ctx context.Context, payment model.Payment) (*model.Payment, error) {
	if result := p.getDB(ctx).Create(&payment); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &payment, nil
}

func (p *PaymentStore) CreateNotification(ctx context.Context, notification model.Notification) (*model.Notification, error) {
	if result := p.getDB(ctx).Create(&notification); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &notification, nil
}

func (p *PaymentStore) CreateReport(ctx context.Context, report model.PaymentReport) (*model.PaymentReport, error) {
	if result := p.getDB(ctx).Create(&report); result.Error != nil {
		return nil, result.Error
	}
	return &report, nil
}

func (p *PaymentStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
