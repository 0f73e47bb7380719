package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"factoryguard/console/internal/predict"
	"factoryguard/console/internal/scoring"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		p        float64
		expected string
	}{
		{0.1234, "12.34"},
		{0.73, "73.00"},
		{0, "0.00"},
		{1, "100.00"},
		{0.99999, "100.00"},
		{0.00004, "0.00"},
	}
	for _, tc := range tests {
		if got := FormatPercent(tc.p); got != tc.expected {
			t.Fatalf("p=%v expected %s got %s", tc.p, tc.expected, got)
		}
	}
}

func TestFactorLines(t *testing.T) {
	view := Results(predict.Response{
		FailureProbability: 0.3,
		TopRiskFactors: []predict.Factor{
			{Name: "temperature", Contribution: 0.05},
			{Name: "pressure", Contribution: -0.03},
			{Name: "vibration", Contribution: 0},
		},
	})

	expected := []string{
		"temperature: increases risk by 0.0500",
		"pressure: decreases risk by 0.0300",
		"vibration: decreases risk by 0.0000",
	}
	var got []string
	for _, f := range view.Factors {
		got = append(got, f.Text())
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("factor lines mismatch (-want +got):\n%s", diff)
	}
}

func TestResultsView(t *testing.T) {
	view := Results(predict.Response{
		FailureProbability: 0.73,
		TopRiskFactors: []predict.Factor{
			{Name: "age", Contribution: 0.1},
			{Name: "mileage", Contribution: -0.05},
		},
	})

	if view.Headline != "Failure Probability: 73.00%" {
		t.Fatalf("unexpected headline %q", view.Headline)
	}
	if view.RiskLevel != scoring.LevelHigh || view.RiskText != "Risk Level: High" {
		t.Fatalf("unexpected risk level %q / %q", view.RiskLevel, view.RiskText)
	}

	bar := view.RiskChart
	if diff := cmp.Diff([]string{"age", "mileage"}, bar.Data.Labels); diff != "" {
		t.Fatalf("bar labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.1, 0.05}, bar.Data.Datasets[0].Data, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("bar data mismatch (-want +got):\n%s", diff)
	}
	if !bar.Options.Scales.Y.BeginAtZero {
		t.Fatalf("bar y axis must start at zero")
	}
	if bar.Options.Scales.X.Title.Text != "Features" || bar.Options.Scales.Y.Title.Text != "Impact on Failure Risk" {
		t.Fatalf("unexpected axis titles %+v", bar.Options.Scales)
	}
}

func TestFailureChart(t *testing.T) {
	chart := FailureChart(0.25)

	if chart.Type != "doughnut" {
		t.Fatalf("expected doughnut got %s", chart.Type)
	}
	data := chart.Data.Datasets[0].Data
	if data[0] != 25 || data[1] != 75 {
		t.Fatalf("unexpected slices %v", data)
	}
	if data[0]+data[1] != 100 {
		t.Fatalf("slices must sum to 100, got %v", data[0]+data[1])
	}
	if got := chart.Options.Plugins.Tooltip.Label("Failure Risk", data[0]); got != "Failure Risk: 25.00%" {
		t.Fatalf("unexpected tooltip %q", got)
	}
}

func TestChartsEncodeNonFiniteValues(t *testing.T) {
	view := Results(predict.Response{
		FailureProbability: 0.5,
		TopRiskFactors:     []predict.Factor{{Name: "odd", Contribution: math.NaN()}},
	})
	if view.Factors[0].Text() != "odd: decreases risk by NaN" {
		t.Fatalf("unexpected line %q", view.Factors[0].Text())
	}
	if _, err := json.Marshal(view); err != nil {
		t.Fatalf("marshal view: %v", err)
	}
}

func TestResultsLines(t *testing.T) {
	view := Results(predict.Response{
		FailureProbability: 0.05,
		TopRiskFactors:     []predict.Factor{{Name: "pressure", Contribution: 0.01}},
	})
	expected := []string{
		"Failure Probability: 5.00%",
		"Risk Level: Low",
		"Top Risk Factors:",
		"  pressure: increases risk by 0.0100",
	}
	if diff := cmp.Diff(expected, view.Lines()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestFailure(t *testing.T) {
	view := Failure("<b>bad input</b>")
	if view.Message != "<b>bad input</b>" {
		t.Fatalf("message must be kept verbatim, got %q", view.Message)
	}
	if view.Text() != "Error: <b>bad input</b>" {
		t.Fatalf("unexpected text %q", view.Text())
	}
}
