package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	PhotoStatusPending   = "pending"
	PhotoStatusCompleted = "completed"
)

// Photo is the metadata record for one uploaded damage photo. The binary
// itself lives in the object store under ObjectKey.
type Photo struct {
	ID               uuid.UUID  `gorm:"primaryKey;column:id;type:VARCHAR(255);" json:"id"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	JobID            string     `gorm:"not null;type:VARCHAR(255);index:photos_job_id_idx" json:"job_id"`
	ContractorID     string     `gorm:"type:VARCHAR(255)" json:"contractor_id"`
	DamageTypeHint   string     `gorm:"type:VARCHAR(100)" json:"damage_type_hint"`
	Description      string     `json:"description"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	OriginalFilename string     `json:"original_filename"`
	ObjectKey        string     `gorm:"not null" json:"object_key"`
	Status           string     `gorm:"not null;type:VARCHAR(50);default:pending" json:"status"`
	// AssessmentID back-references the assessment produced for this photo
	// once Status is completed.
	AssessmentID *uuid.UUID `gorm:"type:VARCHAR(255)" json:"assessment_id,omitempty"`
}

type PhotoList []Photo

func (p Photo) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
