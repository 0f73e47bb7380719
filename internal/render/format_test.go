package render

import (
	"math"
	"testing"

	"factoryguard/console/internal/predict"
)

func TestFixed(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		decimals int
		expected string
	}{
		{"tie rounds up", 0.03125, 4, "0.0313"},
		{"tie rounds up again", 0.15625, 4, "0.1563"},
		{"two place tie", 0.125, 2, "0.13"},
		{"below half stays", 1.005, 2, "1.00"},
		{"integer tie", 2.5, 0, "3"},
		{"negative tie", -2.5, 0, "-3"},
		{"negative rounds to zero", -0.00001, 2, "-0.00"},
		{"negative zero", math.Copysign(0, -1), 2, "0.00"},
		{"pads leading zeros", 0.0007, 4, "0.0007"},
		{"carry into integer", 9.99999, 2, "10.00"},
		{"plain", 73, 2, "73.00"},
		{"large", 1e21, 2, "1e+21"},
		{"nan", math.NaN(), 2, "NaN"},
		{"positive infinity", math.Inf(1), 2, "Infinity"},
		{"negative infinity", math.Inf(-1), 4, "-Infinity"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := fixed(tc.v, tc.decimals); got != tc.expected {
				t.Fatalf("fixed(%v, %d) expected %s got %s", tc.v, tc.decimals, tc.expected, got)
			}
		})
	}
}

func TestTieRoundingThroughViews(t *testing.T) {
	view := Results(predict.Response{
		FailureProbability: 0.00125,
		TopRiskFactors: []predict.Factor{
			{Name: "a", Contribution: 0.03125},
			{Name: "b", Contribution: -0.15625},
		},
	})

	if view.Factors[0].Text() != "a: increases risk by 0.0313" {
		t.Fatalf("unexpected line %q", view.Factors[0].Text())
	}
	if view.Factors[1].Text() != "b: decreases risk by 0.1563" {
		t.Fatalf("unexpected line %q", view.Factors[1].Text())
	}
	if view.ProbPercent != "0.13" {
		t.Fatalf("expected 0.13 got %s", view.ProbPercent)
	}
	if got := FailureTooltip.Label("x", 0.125); got != "x: 0.13%" {
		t.Fatalf("unexpected tooltip %q", got)
	}
}

func TestInfiniteProbabilityHeadline(t *testing.T) {
	view := Results(predict.Response{FailureProbability: math.Inf(1)})
	if view.Headline != "Failure Probability: Infinity%" {
		t.Fatalf("unexpected headline %q", view.Headline)
	}
	if got := FormatPercent(math.Inf(-1)); got != "-Infinity" {
		t.Fatalf("expected -Infinity got %s", got)
	}
}
