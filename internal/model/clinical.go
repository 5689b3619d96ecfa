package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ClinicalCase is the structured case summary a prescription is drafted
// from. Every field is optional; missing values are substituted with the
// "Not provided" placeholder before prompt construction.
type ClinicalCase struct {
	Symptoms         string  `json:"symptoms,omitempty"`
	Diagnosis        string  `json:"diagnosis,omitempty"`
	Instructions     string  `json:"instructions,omitempty"`
	BloodPressure    string  `json:"bloodPressure,omitempty"`
	HeartRate        float64 `json:"heartRate,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	OxygenSaturation float64 `json:"oxygenSaturation,omitempty"`
}

// ComposePrescriptionRequest accepts the case either nested under "case" or
// flat at the top level, as older clients send it.
type ComposePrescriptionRequest struct {
	Case *ClinicalCase `json:"case"`
	ClinicalCase
}

// EffectiveCase resolves the two accepted body shapes.
func (r *ComposePrescriptionRequest) EffectiveCase() *ClinicalCase {
	if r.Case != nil {
		return r.Case
	}
	return &r.ClinicalCase
}

// AIAnalysis is the audit record of one composed prescription.
type AIAnalysis struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	CaseData     json.RawMessage `db:"case_data" json:"case"`
	Prescription string          `db:"prescription" json:"prescription"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
