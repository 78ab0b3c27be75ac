package store

import (
	"context"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Photo() Photo
	Assessment() Assessment
	JobSummary() JobSummary
	Claim() Claim
	Submission() Submission
	Payment() Payment
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db         *gorm.DB
	photo      Photo
	assessment Assessment
	jobSummary JobSummary
	claim      Claim
	submission Submission
	payment    Payment
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:         db,
		photo:      NewPhotoStore(db),
		assessment: NewAssessmentStore(db),
		jobSummary: NewJobSummaryStore(db),
		claim:      NewClaimStore(db),
		submission: NewSubmissionStore(db),
		payment:    NewPaymentStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Photo() Photo {
	return s.photo
}

func (s *DataStore) Assessment() Assessment {
	return s.assessment
}

func (s *DataStore) JobSummary() JobSummary {
	return s.jobSummary
}

func (s *DataStore) Claim() Claim {
	return s.claim
}

func (s *DataStore) Submission() Submission {
	return s.submission
}

func (s *DataStore) Payment() Payment {
	return s.payment
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Photo{},
		&model.Assessment{},
		&model.JobSummary{},
		&model.Claim{},
		&model.Submission{},
		&model.Payment{},
		&model.Notification{},
		&model.PaymentReport{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
