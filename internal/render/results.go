package render

import (
	"math"

	"factoryguard/console/internal/predict"
	"factoryguard/console/internal/scoring"
)

// ResultsView is everything the results panel shows for one prediction.
type ResultsView struct {
	Headline     string        `json:"headline"`
	ProbPercent  string        `json:"prob_percent"`
	RiskLevel    scoring.Level `json:"risk_level"`
	RiskText     string        `json:"risk_text"`
	Factors      []FactorLine  `json:"factors"`
	FailureChart ChartConfig   `json:"failure_chart"`
	RiskChart    ChartConfig   `json:"risk_chart"`
}

// FactorLine describes one risk factor in words.
type FactorLine struct {
	Feature   string  `json:"feature"`
	Direction string  `json:"direction"`
	Magnitude string  `json:"magnitude"`
	Impact    float64 `json:"-"`
}

// Text renders the line as "<feature>: <direction> risk by <magnitude>".
func (l FactorLine) Text() string {
	return l.Feature + ": " + l.Direction + " risk by " + l.Magnitude
}

// Results maps a prediction onto the results panel contents.
func Results(resp predict.Response) ResultsView {
	percent := FormatPercent(resp.FailureProbability)
	level := scoring.LevelFor(resp.FailureProbability)

	factors := make([]FactorLine, 0, len(resp.TopRiskFactors))
	for _, f := range resp.TopRiskFactors {
		impact := math.Abs(f.Contribution)
		factors = append(factors, FactorLine{
			Feature:   f.Name,
			Direction: scoring.Direction(f.Contribution),
			Magnitude: fixed(impact, 4),
			Impact:    impact,
		})
	}

	return ResultsView{
		Headline:     "Failure Probability: " + percent + "%",
		ProbPercent:  percent,
		RiskLevel:    level,
		RiskText:     "Risk Level: " + string(level),
		Factors:      factors,
		FailureChart: FailureChart(resp.FailureProbability),
		RiskChart:    RiskChart(factors),
	}
}

// Lines is the plain-text form of the view, headline first.
func (v ResultsView) Lines() []string {
	lines := []string{v.Headline, v.RiskText, "Top Risk Factors:"}
	for _, f := range v.Factors {
		lines = append(lines, "  "+f.Text())
	}
	return lines
}

// FormatPercent renders a probability as a percentage with two decimals.
func FormatPercent(probability float64) string {
	return fixed(probability*100, 2)
}
