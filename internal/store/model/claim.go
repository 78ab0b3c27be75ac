package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ClaimStatusReady     = "Ready for Submission"
	ClaimStatusSubmitted = "Submitted"
)

// LineItem is one priced unit of repair work within a claim.
type LineItem struct {
	Category    string  `json:"category"`
	ItemID      string  `json:"item_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Notes       string  `json:"notes"`
}

// PropertyInfo is embedded into the claim at formatting time.
type PropertyInfo struct {
	Address       string `json:"address"`
	Type          string `json:"type"`
	YearBuilt     int    `json:"year_built"`
	SquareFootage int    `json:"square_footage"`
}

// DamageInfo summarizes the loss event for the claim sink.
type DamageInfo struct {
	EventType       string    `json:"event_type"`
	DateOfLoss      time.Time `json:"date_of_loss"`
	OverallSeverity float64   `json:"overall_severity"`
	DamageTypes     []string  `json:"damage_types"`
}

// Claim is the priced submission for a job. At most one exists per job.
type Claim struct {
	ID        uuid.UUID  `gorm:"primaryKey;column:id;type:VARCHAR(255);" json:"id"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	JobID     string     `gorm:"not null;type:VARCHAR(255);uniqueIndex:claims_job_id_key" json:"job_id"`
	// ContractorID identifies the contractor who documented the damage;
	// carried through to the payment stage.
	ContractorID string                   `gorm:"type:VARCHAR(255)" json:"contractor_id"`
	Property     *JSONField[PropertyInfo] `gorm:"not null" json:"property"`
	Damage       *JSONField[DamageInfo]   `gorm:"not null" json:"damage"`
	LineItems    *JSONField[[]LineItem]   `gorm:"not null" json:"line_items"`
	Subtotal     float64                  `gorm:"not null" json:"subtotal"`
	TaxRate      float64                  `gorm:"not null" json:"tax_rate"`
	Tax          float64                  `gorm:"not null" json:"tax"`
	Total        float64                  `gorm:"not null" json:"total"`
	Status       string                   `gorm:"not null;type:VARCHAR(50)" json:"status"`
}

type ClaimList []Claim

func (c Claim) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}
