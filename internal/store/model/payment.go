package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusProcessed = "Processed"

	PaymentMethodDirectDeposit = "Direct Deposit"
)

// Payment is the contractor payment for an approved claim. Exactly one
// exists per job; immutable once created.
type Payment struct {
	ID           uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);" json:"id"`
	JobID        string    `gorm:"not null;type:VARCHAR(255);uniqueIndex:payments_job_id_key" json:"job_id"`
	ClaimID      uuid.UUID `gorm:"not null;type:VARCHAR(255)" json:"claim_id"`
	ExternalRef  string    `gorm:"not null;type:VARCHAR(100)" json:"external_ref"`
	ContractorID string    `gorm:"type:VARCHAR(255)" json:"contractor_id"`
	Amount       float64   `gorm:"not null" json:"amount"`
	ClaimTotal   float64   `gorm:"not null" json:"claim_total"`
	Share        float64   `gorm:"not null" json:"share"`
	Method       string    `gorm:"not null;type:VARCHAR(50)" json:"method"`
	Status       string    `gorm:"not null;type:VARCHAR(50)" json:"status"`
	Notes        string    `json:"notes"`
	PaidAt       time.Time `gorm:"not null;index:payments_paid_at_idx" json:"paid_at"`
}

type PaymentList []Payment

// Notification records the contractor notification sent for a payment.
// Terminal side effect, never retried.
type Notification struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	JobID     string    `gorm:"not null;type:VARCHAR(255);uniqueIndex:notifications_job_id_key" json:"job_id"`
	PaymentID uuid.UUID `gorm:"not null;type:VARCHAR(255)" json:"payment_id"`
	Recipient string    `gorm:"not null" json:"recipient"`
	Subject   string    `gorm:"not null" json:"subject"`
	Body      string    `gorm:"not null" json:"body"`
}

// PaymentReport is the persisted aggregate over a closed payment-date
// interval.
type PaymentReport struct {
	ID             uuid.UUID             `gorm:"primaryKey;column:id;type:VARCHAR(255);" json:"id"`
	CreatedAt      time.Time             `gorm:"not null" json:"created_at"`
	StartDate      time.Time             `gorm:"not null" json:"start_date"`
	EndDate        time.Time             `gorm:"not null" json:"end_date"`
	PaymentCount   int                   `gorm:"not null" json:"payment_count"`
	TotalPaid      float64               `gorm:"not null" json:"total_paid"`
	TotalClaimed   float64               `gorm:"not null" json:"total_claimed"`
	AveragePayment float64               `gorm:"not null" json:"average_payment"`
	Records        *JSONField[[]Payment] `gorm:"not null" json:"records"`
}

func (p Payment) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

func (r PaymentReport) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
