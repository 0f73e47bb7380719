package render

import "math"

// ChartConfig is a Chart.js configuration. The page hands it to the chart
// library unchanged, apart from installing a tooltip formatter when Tooltip
// is set on the plugins.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset accepts either one colour or a colour per slice in BackgroundColor.
type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor any       `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth"`
}

type ChartOptions struct {
	Responsive bool    `json:"responsive"`
	Scales     *Scales `json:"scales,omitempty"`
	Plugins    Plugins `json:"plugins"`
}

type Scales struct {
	Y Axis `json:"y"`
	X Axis `json:"x"`
}

type Axis struct {
	BeginAtZero bool      `json:"beginAtZero,omitempty"`
	Title       AxisTitle `json:"title"`
}

type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Plugins struct {
	Legend  Legend   `json:"legend"`
	Tooltip *Tooltip `json:"tooltip,omitempty"`
}

type Legend struct {
	Display  *bool  `json:"display,omitempty"`
	Position string `json:"position,omitempty"`
}

// Tooltip describes the label formatter: "<label>: <value with Precision decimals><Suffix>".
type Tooltip struct {
	Precision int    `json:"precision"`
	Suffix    string `json:"suffix"`
}

// Label formats one tooltip line.
func (t Tooltip) Label(label string, value float64) string {
	return label + ": " + fixed(value, t.Precision) + t.Suffix
}

const (
	failureColour  = "#dc3545"
	safeColour     = "#28a745"
	barColour      = "#007bff"
	barBorder      = "#0056b3"
	failureLabel   = "Failure Risk"
	safeLabel      = "Safe"
	barDatasetName = "SHAP Value (Absolute)"
	xAxisTitle     = "Features"
	yAxisTitle     = "Impact on Failure Risk"
)

// FailureTooltip is the doughnut tooltip formatter.
var FailureTooltip = Tooltip{Precision: 2, Suffix: "%"}

// FailureChart builds the two-slice doughnut of failure risk against safe.
func FailureChart(probability float64) ChartConfig {
	percent := finite(probability * 100)
	tooltip := FailureTooltip
	return ChartConfig{
		Type: "doughnut",
		Data: ChartData{
			Labels: []string{failureLabel, safeLabel},
			Datasets: []Dataset{{
				Data:            []float64{percent, 100 - percent},
				BackgroundColor: []string{failureColour, safeColour},
				BorderWidth:     0,
			}},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: Plugins{
				Legend:  Legend{Position: "bottom"},
				Tooltip: &tooltip,
			},
		},
	}
}

// RiskChart builds the bar chart of absolute factor contributions.
func RiskChart(factors []FactorLine) ChartConfig {
	labels := make([]string, 0, len(factors))
	values := make([]float64, 0, len(factors))
	for _, f := range factors {
		labels = append(labels, f.Feature)
		values = append(values, finite(f.Impact))
	}
	hidden := false
	return ChartConfig{
		Type: "bar",
		Data: ChartData{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           barDatasetName,
				Data:            values,
				BackgroundColor: barColour,
				BorderColor:     barBorder,
				BorderWidth:     1,
			}},
		},
		Options: ChartOptions{
			Responsive: true,
			Scales: &Scales{
				Y: Axis{BeginAtZero: true, Title: AxisTitle{Display: true, Text: yAxisTitle}},
				X: Axis{Title: AxisTitle{Display: true, Text: xAxisTitle}},
			},
			Plugins: Plugins{Legend: Legend{Display: &hidden}},
		},
	}
}

// finite keeps chart data encodable; JSON has no NaN or Infinity.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
