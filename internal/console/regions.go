package console

import (
	"sync"

	"factoryguard/console/internal/render"
)

// SubmitControl is the form's submit button.
type SubmitControl struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Busy disables the control and shows the in-progress label.
func (c *SubmitControl) Busy(label string) {
	c.Label = label
	c.Disabled = true
}

// Ready re-enables the control with its idle label.
func (c *SubmitControl) Ready(label string) {
	c.Label = label
	c.Disabled = false
}

// ResultsPanel holds the probability text, factor list and both charts.
type ResultsPanel struct {
	Visible bool                `json:"visible"`
	View    *render.ResultsView `json:"view,omitempty"`
}

// Show writes the view and reveals the panel. The panel only becomes
// visible once the whole view is in place.
func (p *ResultsPanel) Show(view render.ResultsView) {
	p.View = &view
	p.Visible = true
}

// Clear hides the panel and drops its contents.
func (p *ResultsPanel) Clear() {
	p.Visible = false
	p.View = nil
}

// ErrorPanel is the labelled error box.
type ErrorPanel struct {
	Visible bool              `json:"visible"`
	View    *render.ErrorView `json:"view,omitempty"`
}

func (p *ErrorPanel) Show(view render.ErrorView) {
	p.View = &view
	p.Visible = true
}

func (p *ErrorPanel) Clear() {
	p.Visible = false
	p.View = nil
}

// FormState remembers the raw values of the last submission so the page can
// show them again.
type FormState struct {
	Values map[string]string `json:"values"`
}

// Regions are the named parts of the page the controller writes to.
type Regions struct {
	Form    FormState     `json:"form"`
	Submit  SubmitControl `json:"submit"`
	Results ResultsPanel  `json:"results"`
	Error   ErrorPanel    `json:"error"`
}

// Screen is one page's regions behind a lock. Writers hold the lock only while
// updating; nothing waits on the network with it held.
type Screen struct {
	mu      sync.Mutex
	regions Regions
}

// NewScreen returns a screen with an enabled submit control and both panels hidden.
func NewScreen(submitLabel string) *Screen {
	s := &Screen{}
	s.regions.Submit.Ready(submitLabel)
	return s
}

// Update applies fn to the regions under the screen lock.
func (s *Screen) Update(fn func(*Regions)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.regions)
}

// Snapshot returns a copy of the regions. Views are never mutated after Show,
// so sharing their pointers is safe.
func (s *Screen) Snapshot() Regions {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.regions
	if s.regions.Form.Values != nil {
		snap.Form.Values = make(map[string]string, len(s.regions.Form.Values))
		for k, v := range s.regions.Form.Values {
			snap.Form.Values[k] = v
		}
	}
	return snap
}
