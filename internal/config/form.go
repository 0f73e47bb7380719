package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed form.yaml
var defaultFormYAML []byte

// ErrNoFields is returned when a form schema describes no inputs.
var ErrNoFields = errors.New("form schema has no fields")

// FormSchema describes the prediction form. Field names follow the feature
// pipeline: each sensor contributes its raw reading, one lag per lag step and a
// rolling mean and standard deviation per window. Fields lists extra inputs
// appended after the derived ones.
type FormSchema struct {
	Title          string   `yaml:"title" json:"title"`
	SubmitLabel    string   `yaml:"submit_label" json:"submit_label"`
	Sensors        []string `yaml:"sensors" json:"sensors"`
	LagSteps       []int    `yaml:"lag_steps" json:"lag_steps"`
	RollingWindows []int    `yaml:"rolling_windows" json:"rolling_windows"`
	Extra          []Field  `yaml:"fields" json:"fields,omitempty"`
}

// Field is one numeric input on the form.
type Field struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
	Group string `yaml:"group" json:"group"`
	Step  string `yaml:"step" json:"step"`
}

// LoadFormSchema reads a YAML schema from path, or the built-in schema when
// path is empty.
func LoadFormSchema(path string) (FormSchema, error) {
	data := defaultFormYAML
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		raw, err := os.ReadFile(trimmed)
		if err != nil {
			return FormSchema{}, fmt.Errorf("read form schema: %w", err)
		}
		data = raw
	}
	return ParseFormSchema(data)
}

// ParseFormSchema decodes and checks a YAML schema.
func ParseFormSchema(data []byte) (FormSchema, error) {
	var schema FormSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return FormSchema{}, fmt.Errorf("decode form schema: %w", err)
	}
	if strings.TrimSpace(schema.SubmitLabel) == "" {
		schema.SubmitLabel = "Predict"
	}
	if strings.TrimSpace(schema.Title) == "" {
		schema.Title = "Failure Prediction"
	}
	if len(schema.Fields()) == 0 {
		return FormSchema{}, ErrNoFields
	}
	return schema, nil
}

// Fields expands the schema into form inputs, sensor by sensor, with extra
// fields last. Duplicate names are kept once.
func (s FormSchema) Fields() []Field {
	var out []Field
	seen := make(map[string]struct{})
	add := func(f Field) {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return
		}
		if _, ok := seen[f.Name]; ok {
			return
		}
		seen[f.Name] = struct{}{}
		if f.Label == "" {
			f.Label = humanize(f.Name)
		}
		if f.Step == "" {
			f.Step = "any"
		}
		out = append(out, f)
	}

	for _, sensor := range s.Sensors {
		sensor = strings.TrimSpace(sensor)
		if sensor == "" {
			continue
		}
		add(Field{Name: sensor, Group: sensor})
		for _, lag := range s.LagSteps {
			add(Field{Name: fmt.Sprintf("%s_lag_%d", sensor, lag), Group: sensor})
		}
		for _, window := range s.RollingWindows {
			add(Field{Name: fmt.Sprintf("%s_roll_mean_%dh", sensor, window), Group: sensor})
			add(Field{Name: fmt.Sprintf("%s_roll_std_%dh", sensor, window), Group: sensor})
		}
	}
	for _, f := range s.Extra {
		add(f)
	}
	return out
}

func humanize(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
