package store

import (
	"encoding/json"
	"strings"
	"time"
)

// Submission is one row of the submission log: what was sent, how it ended,
// and how long it took. It is never read back to answer a prediction.
type Submission struct {
	ID                 uint   `gorm:"primaryKey"`
	SubmissionID       string `gorm:"size:36;uniqueIndex"`
	Session            string `gorm:"size:36;index"`
	Outcome            string `gorm:"size:32;index"`
	Status             int    `gorm:"index"`
	FailureProbability *float64
	RiskLevel          string `gorm:"size:16;index"`
	Message            string `gorm:"type:text"`
	FeatureCount       int
	FeaturesJSON       string `gorm:"type:text"`
	MissingJSON        string `gorm:"type:text"`
	DurationMs         int64
	CreatedAt          time.Time `gorm:"index"`
}

// SetFeatures stores the submitted payload as JSON.
func (s *Submission) SetFeatures(payload []byte) {
	s.FeaturesJSON = string(payload)
}

// SetMissing persists the feature names the service reported as missing.
func (s *Submission) SetMissing(names []string) {
	if len(names) == 0 {
		s.MissingJSON = ""
		return
	}
	payload, _ := json.Marshal(names)
	s.MissingJSON = string(payload)
}

// Missing returns the stored missing feature names.
func (s *Submission) Missing() []string {
	if strings.TrimSpace(s.MissingJSON) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s.MissingJSON), &out); err != nil {
		return nil
	}
	return out
}

// OutcomeCount is a per-outcome tally.
type OutcomeCount struct {
	Outcome string `json:"outcome"`
	Total   int64  `json:"total"`
}
