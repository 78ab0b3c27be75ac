package model

import (
	"encoding/json"
	"time"
)

// DamageAverages is the per-category aggregate over all assessments of a
// job.
type DamageAverages struct {
	Severity     float64 `json:"severity"`
	Confidence   float64 `json:"confidence"`
	AreaFraction float64 `json:"area_fraction"`
	PhotoCount   int     `json:"photo_count"`
}

// MeasurementLists collects the raw measurement blocks of every assessment
// per category. Heterogeneous fields are not averaged; downstream
// consumers pick what they need.
type MeasurementLists struct {
	Roof       []RoofMeasurement       `json:"roof,omitempty"`
	Siding     []SidingMeasurement     `json:"siding,omitempty"`
	Structural []StructuralMeasurement `json:"structural,omitempty"`
	Water      []WaterMeasurement      `json:"water,omitempty"`
	Debris     []DebrisMeasurement     `json:"debris,omitempty"`
}

// JobSummary aggregates all assessments of a job. It is recomputed and
// overwritten as a whole on every aggregation run.
type JobSummary struct {
	JobID             string                                `gorm:"primaryKey;column:job_id;type:VARCHAR(255);" json:"job_id"`
	CreatedAt         time.Time                             `gorm:"not null" json:"created_at"`
	UpdatedAt         *time.Time                            `json:"updated_at,omitempty"`
	AssessmentCount   int                                   `gorm:"not null" json:"assessment_count"`
	DamageSummary     *JSONField[map[string]DamageAverages] `gorm:"not null" json:"damage_summary"`
	Measurements      *JSONField[MeasurementLists]          `gorm:"not null" json:"measurements"`
	OverallSeverity   float64                               `gorm:"not null" json:"overall_severity"`
	OverallConfidence float64                               `gorm:"not null" json:"overall_confidence"`
	Ready             bool                                  `gorm:"not null" json:"ready"`
}

type JobSummaryList []JobSummary

func (s JobSummary) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}
