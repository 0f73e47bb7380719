package api

import (
	"time"

	"factoryguard/console/internal/config"
	"factoryguard/console/internal/store"
)

// SubmissionDTO is the API representation of a logged submission.
type SubmissionDTO struct {
	ID                 string    `json:"id"`
	Outcome            string    `json:"outcome"`
	Status             int       `json:"status"`
	FailureProbability *float64  `json:"failure_probability,omitempty"`
	RiskLevel          string    `json:"risk_level,omitempty"`
	Message            string    `json:"message,omitempty"`
	MissingFeatures    []string  `json:"missing_features,omitempty"`
	FeatureCount       int       `json:"feature_count"`
	DurationMs         int64     `json:"duration_ms"`
	CreatedAt          time.Time `json:"created_at"`
}

// SubmissionsResponse is the list payload for the submission log.
type SubmissionsResponse struct {
	Items  []SubmissionDTO      `json:"items"`
	Counts []store.OutcomeCount `json:"counts"`
}

// FormResponse describes the prediction form.
type FormResponse struct {
	Title       string         `json:"title"`
	SubmitLabel string         `json:"submit_label"`
	Fields      []config.Field `json:"fields"`
}

// SubmissionFromModel converts a store.Submission into the DTO representation.
func SubmissionFromModel(s store.Submission) SubmissionDTO {
	return SubmissionDTO{
		ID:                 s.SubmissionID,
		Outcome:            s.Outcome,
		Status:             s.Status,
		FailureProbability: s.FailureProbability,
		RiskLevel:          s.RiskLevel,
		Message:            s.Message,
		MissingFeatures:    s.Missing(),
		FeatureCount:       s.FeatureCount,
		DurationMs:         s.DurationMs,
		CreatedAt:          s.CreatedAt,
	}
}
