package console

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	"factoryguard/console/internal/predict"
	"factoryguard/console/internal/render"
	"factoryguard/console/internal/util"
)

// BusyLabel replaces the submit label while a prediction is in flight.
const BusyLabel = "Predicting..."

// Predictor performs the prediction exchange.
type Predictor interface {
	Predict(ctx context.Context, req predict.Request) predict.Outcome
}

// Observer hears about every submission. Implementations must not block.
type Observer interface {
	SubmissionStarted(sub Submission)
	SubmissionFinished(result Result)
}

// Submission identifies a submission in flight.
type Submission struct {
	ID        string
	Session   string
	Request   predict.Request
	StartedAt time.Time
}

// Result is a finished submission.
type Result struct {
	Submission
	Outcome  predict.Outcome
	Duration time.Duration
}

// Controller handles form submissions for a screen.
type Controller struct {
	predictor   Predictor
	observer    Observer
	submitLabel string
}

// NewController builds a controller. observer may be nil.
func NewController(predictor Predictor, observer Observer, submitLabel string) *Controller {
	return &Controller{
		predictor:   predictor,
		observer:    observer,
		submitLabel: submitLabel,
	}
}

// Submit runs one submission against screen: it marks the control busy, clears
// both panels, sends every form field as a number, and writes the outcome to
// the results or error panel. The control is released on every exit path.
//
// Overlapping submissions on the same screen are not ordered; whichever
// finishes last owns the panels.
func (c *Controller) Submit(ctx context.Context, session string, screen *Screen, form url.Values) Result {
	screen.Update(func(r *Regions) {
		r.Submit.Busy(BusyLabel)
		r.Results.Clear()
		r.Error.Clear()
		r.Form.Values = lastValues(form)
	})
	defer screen.Update(func(r *Regions) {
		r.Submit.Ready(c.submitLabel)
	})

	timer := util.StartTimer()
	sub := Submission{
		ID:        uuid.NewString(),
		Session:   session,
		Request:   predict.BuildRequest(form),
		StartedAt: timer.StartedAt(),
	}
	if c.observer != nil {
		c.observer.SubmissionStarted(sub)
	}

	outcome := c.predictor.Predict(ctx, sub.Request)

	if outcome.OK() {
		view := render.Results(outcome.Response)
		screen.Update(func(r *Regions) { r.Results.Show(view) })
	} else {
		view := render.Failure(outcome.Message())
		screen.Update(func(r *Regions) { r.Error.Show(view) })
	}

	result := Result{Submission: sub, Outcome: outcome, Duration: timer.Elapsed()}
	if c.observer != nil {
		c.observer.SubmissionFinished(result)
	}
	return result
}

func lastValues(form url.Values) map[string]string {
	out := make(map[string]string, len(form))
	for name, values := range form {
		if len(values) > 0 {
			out[name] = values[len(values)-1]
		}
	}
	return out
}
