package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionStatusSubmitted = "Submitted"
	SubmissionStatusApproved  = "Approved"
)

// Submission tracks the outcome of a claim submission. Status is the only
// field mutated after creation, by the status check.
type Submission struct {
	ID                      uuid.UUID  `gorm:"primaryKey;column:id;type:VARCHAR(255);" json:"id"`
	ClaimID                 uuid.UUID  `gorm:"not null;type:VARCHAR(255)" json:"claim_id"`
	JobID                   string     `gorm:"not null;type:VARCHAR(255);uniqueIndex:submissions_job_id_key" json:"job_id"`
	ExternalRef             string     `gorm:"not null;type:VARCHAR(100)" json:"external_ref"`
	SubmittedAt             time.Time  `gorm:"not null" json:"submitted_at"`
	UpdatedAt               *time.Time `json:"updated_at,omitempty"`
	EstimatedProcessingDays int        `gorm:"not null" json:"estimated_processing_days"`
	EstimatedPayout         float64    `gorm:"not null" json:"estimated_payout"`
	Status                  string     `gorm:"not null;type:VARCHAR(50)" json:"status"`
	ApprovedAt              *time.Time `json:"approved_at,omitempty"`
	PayoutAmount            *float64   `json:"payout_amount,omitempty"`
}

type SubmissionList []Submission

func (s Submission) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}
