package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Damage categories the assessor recognizes.
const (
	CategoryRoof       = "roof"
	CategorySiding     = "siding"
	CategoryStructural = "structural"
	CategoryWater      = "water"
	CategoryDebris     = "debris"
)

func Categories() []string {
	return []string{CategoryRoof, CategorySiding, CategoryStructural, CategoryWater, CategoryDebris}
}

func IsCategory(s string) bool {
	switch s {
	case CategoryRoof, CategorySiding, CategoryStructural, CategoryWater, CategoryDebris:
		return true
	}
	return false
}

// DamageDetail holds the per-category scores of a single photo assessment.
type DamageDetail struct {
	Severity     float64 `json:"severity"`
	Confidence   float64 `json:"confidence"`
	AreaFraction float64 `json:"area_fraction"`
}

type RoofMeasurement struct {
	AreaSqFt       float64 `json:"area_sqft"`
	Pitch          string  `json:"pitch"`
	Material       string  `json:"material"`
	DamageFraction float64 `json:"damage_fraction"`
}

type SidingMeasurement struct {
	AreaSqFt       float64 `json:"area_sqft"`
	Material       string  `json:"material"`
	DamageFraction float64 `json:"damage_fraction"`
}

type StructuralMeasurement struct {
	AffectedComponents []string `json:"affected_components"`
	Severity           string   `json:"severity"`
}

type WaterMeasurement struct {
	AffectedAreaSqFt float64 `json:"affected_area_sqft"`
	DepthInches      float64 `json:"depth_inches"`
	Category         int     `json:"category"`
}

type DebrisMeasurement struct {
	VolumeCubicYards float64 `json:"volume_cubic_yards"`
	Type             string  `json:"type"`
}

// Measurements carries the category-specific measurement blocks of one
// assessment. Only the blocks for detected categories are set.
type Measurements struct {
	Roof       *RoofMeasurement       `json:"roof,omitempty"`
	Siding     *SidingMeasurement     `json:"siding,omitempty"`
	Structural *StructuralMeasurement `json:"structural,omitempty"`
	Water      *WaterMeasurement      `json:"water,omitempty"`
	Debris     *DebrisMeasurement     `json:"debris,omitempty"`
}

// Assessment is the assessor's output for one photo. Immutable once
// created.
type Assessment struct {
	ID                uuid.UUID                           `gorm:"primaryKey;column:id;type:VARCHAR(255);" json:"id"`
	CreatedAt         time.Time                           `gorm:"not null" json:"created_at"`
	JobID             string                              `gorm:"not null;type:VARCHAR(255);index:assessments_job_id_idx" json:"job_id"`
	PhotoID           uuid.UUID                           `gorm:"not null;type:VARCHAR(255);uniqueIndex:assessments_photo_id_key" json:"photo_id"`
	Damages           *JSONField[map[string]DamageDetail] `gorm:"not null" json:"damages"`
	Measurements      *JSONField[Measurements]            `gorm:"not null" json:"measurements"`
	OverallSeverity   float64                             `gorm:"not null" json:"overall_severity"`
	OverallConfidence float64                             `gorm:"not null" json:"overall_confidence"`
}

type AssessmentList []Assessment

func (a Assessment) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
