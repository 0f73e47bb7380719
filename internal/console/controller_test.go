package console

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factoryguard/console/internal/predict"
	"factoryguard/console/internal/render"
)

type predictorFunc func(ctx context.Context, req predict.Request) predict.Outcome

func (f predictorFunc) Predict(ctx context.Context, req predict.Request) predict.Outcome {
	return f(ctx, req)
}

type recordingObserver struct {
	started  []Submission
	finished []Result
}

func (o *recordingObserver) SubmissionStarted(sub Submission) { o.started = append(o.started, sub) }
func (o *recordingObserver) SubmissionFinished(res Result)    { o.finished = append(o.finished, res) }

func okOutcome() predict.Outcome {
	return predict.Outcome{
		Kind:   predict.KindOK,
		Status: 200,
		Response: predict.Response{
			FailureProbability: 0.73,
			TopRiskFactors: []predict.Factor{
				{Name: "age", Contribution: 0.1},
				{Name: "mileage", Contribution: -0.05},
			},
		},
	}
}

func serviceOutcome(msg string) predict.Outcome {
	err := &predict.ServiceError{Status: 400, Message: msg}
	return predict.Outcome{Kind: predict.KindServiceError, Status: 400, Err: err}
}

func transportOutcome(err error) predict.Outcome {
	return predict.Outcome{Kind: predict.KindTransportError, Err: &predict.TransportError{Err: err}}
}

func assertReleased(t *testing.T, screen *Screen) {
	t.Helper()
	snap := screen.Snapshot()
	assert.Equal(t, "Predict", snap.Submit.Label)
	assert.False(t, snap.Submit.Disabled)
}

func TestSubmitSuccess(t *testing.T) {
	var got predict.Request
	ctrl := NewController(predictorFunc(func(_ context.Context, req predict.Request) predict.Outcome {
		got = req
		return okOutcome()
	}), nil, "Predict")
	screen := NewScreen("Predict")

	res := ctrl.Submit(context.Background(), "s1", screen, url.Values{"age": {"4"}, "mileage": {"oops"}})

	require.True(t, res.Outcome.OK())
	assert.Equal(t, 4.0, got["age"])
	assert.True(t, math.IsNaN(got["mileage"]))

	snap := screen.Snapshot()
	assert.True(t, snap.Results.Visible)
	require.NotNil(t, snap.Results.View)
	assert.Equal(t, "Failure Probability: 73.00%", snap.Results.View.Headline)
	assert.False(t, snap.Error.Visible)
	assert.Equal(t, "oops", snap.Form.Values["mileage"])
	assertReleased(t, screen)
}

func TestSubmitServiceError(t *testing.T) {
	ctrl := NewController(predictorFunc(func(context.Context, predict.Request) predict.Outcome {
		return serviceOutcome("bad input")
	}), nil, "Predict")
	screen := NewScreen("Predict")

	ctrl.Submit(context.Background(), "s1", screen, url.Values{"age": {"1"}})

	snap := screen.Snapshot()
	assert.False(t, snap.Results.Visible)
	assert.Nil(t, snap.Results.View)
	require.True(t, snap.Error.Visible)
	assert.Equal(t, render.Failure("bad input"), *snap.Error.View)
	assertReleased(t, screen)
}

func TestSubmitTransportError(t *testing.T) {
	ctrl := NewController(predictorFunc(func(context.Context, predict.Request) predict.Outcome {
		return transportOutcome(errors.New("connection refused"))
	}), nil, "Predict")
	screen := NewScreen("Predict")

	ctrl.Submit(context.Background(), "s1", screen, url.Values{})

	snap := screen.Snapshot()
	assert.False(t, snap.Results.Visible)
	require.True(t, snap.Error.Visible)
	assert.Contains(t, snap.Error.View.Message, "connection refused")
	assert.Equal(t, "Network error: connection refused", snap.Error.View.Message)
	assertReleased(t, screen)
}

func TestSubmitBusyWhileInFlight(t *testing.T) {
	screen := NewScreen("Predict")
	screen.Update(func(r *Regions) {
		r.Results.Show(render.Results(okOutcome().Response))
		r.Error.Show(render.Failure("old"))
	})

	var during Regions
	ctrl := NewController(predictorFunc(func(context.Context, predict.Request) predict.Outcome {
		during = screen.Snapshot()
		return serviceOutcome("bad input")
	}), nil, "Predict")

	ctrl.Submit(context.Background(), "s1", screen, url.Values{"age": {"1"}})

	assert.True(t, during.Submit.Disabled)
	assert.Equal(t, BusyLabel, during.Submit.Label)
	assert.False(t, during.Results.Visible)
	assert.False(t, during.Error.Visible)
	assertReleased(t, screen)
}

func TestSubmitReleasesOnPanic(t *testing.T) {
	ctrl := NewController(predictorFunc(func(context.Context, predict.Request) predict.Outcome {
		panic("boom")
	}), nil, "Predict")
	screen := NewScreen("Predict")

	func() {
		defer func() { _ = recover() }()
		ctrl.Submit(context.Background(), "s1", screen, url.Values{})
	}()

	assertReleased(t, screen)
}

func TestSubmitNotifiesObserver(t *testing.T) {
	observer := &recordingObserver{}
	ctrl := NewController(predictorFunc(func(context.Context, predict.Request) predict.Outcome {
		return okOutcome()
	}), observer, "Predict")

	res := ctrl.Submit(context.Background(), "session-9", NewScreen("Predict"), url.Values{"age": {"2"}})

	require.Len(t, observer.started, 1)
	require.Len(t, observer.finished, 1)
	assert.Equal(t, res.ID, observer.started[0].ID)
	assert.Equal(t, "session-9", observer.finished[0].Session)
	assert.NotEmpty(t, res.ID)
	assert.GreaterOrEqual(t, int64(res.Duration), int64(0))
}
