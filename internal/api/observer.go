package api

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"factoryguard/console/internal/console"
	"factoryguard/console/internal/metrics"
	"factoryguard/console/internal/predict"
	"factoryguard/console/internal/scoring"
	"factoryguard/console/internal/store"
)

// SubmissionStarted implements console.Observer.
func (s *Server) SubmissionStarted(sub console.Submission) {
	metrics.InFlight.Inc()
	logrus.WithFields(logrus.Fields{
		"submission": sub.ID,
		"session":    sub.Session,
		"features":   len(sub.Request),
	}).Debug("submission started")

	s.notifier.Broadcast(SubmissionEvent{
		Type:         EventStarted,
		SubmissionID: sub.ID,
		Features:     len(sub.Request),
	})
}

// SubmissionFinished implements console.Observer: it logs, counts, persists
// and broadcasts the result. A probability JSON cannot carry is recorded as
// absent.
func (s *Server) SubmissionFinished(res console.Result) {
	metrics.InFlight.Dec()
	outcome := res.Outcome
	metrics.ObserveSubmission(string(outcome.Kind), res.Duration)

	fields := logrus.Fields{
		"submission":  res.ID,
		"session":     res.Session,
		"outcome":     outcome.Kind,
		"status":      outcome.Status,
		"features":    len(res.Request),
		"duration_ms": res.Duration.Milliseconds(),
	}

	event := SubmissionEvent{
		Type:         EventCompleted,
		SubmissionID: res.ID,
		Outcome:      string(outcome.Kind),
		Status:       outcome.Status,
		Features:     len(res.Request),
		DurationMs:   res.Duration.Milliseconds(),
	}

	var missing []string
	if outcome.OK() {
		prob := outcome.Response.FailureProbability
		level := string(scoring.LevelFor(prob))
		metrics.ObserveRiskLevel(level)
		if !math.IsNaN(prob) && !math.IsInf(prob, 0) {
			event.FailureProbability = &prob
		}
		event.RiskLevel = level
		fields["risk_level"] = level
		logrus.WithFields(fields).Info("prediction rendered")
	} else {
		event.Type = EventFailed
		event.Message = outcome.Message()
		var svcErr *predict.ServiceError
		if errors.As(outcome.Err, &svcErr) {
			missing = svcErr.MissingFeatures
			if len(missing) > 0 {
				fields["missing_features"] = missing
			}
		}
		logrus.WithFields(fields).WithError(outcome.Err).Warn("prediction failed")
	}

	s.persist(res, event, missing)
	s.notifier.Broadcast(event)
}

func (s *Server) persist(res console.Result, event SubmissionEvent, missing []string) {
	if s.db == nil {
		return
	}
	row := &store.Submission{
		SubmissionID:       res.ID,
		Session:            res.Session,
		Outcome:            event.Outcome,
		Status:             event.Status,
		FailureProbability: event.FailureProbability,
		RiskLevel:          event.RiskLevel,
		Message:            event.Message,
		FeatureCount:       len(res.Request),
		DurationMs:         event.DurationMs,
		CreatedAt:          res.StartedAt.UTC(),
	}
	if payload, err := json.Marshal(res.Request); err == nil {
		row.SetFeatures(payload)
	}
	row.SetMissing(missing)

	if err := s.db.SaveSubmission(row); err != nil {
		logrus.WithError(err).WithField("submission", res.ID).Warn("save submission")
	}
}
