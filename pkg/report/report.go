package report

import "github.com/arthur-debert/pyswitch/pkg/style"

// Status aliases the shared status type
type Status = style.Status

// Item is one line of a section
type Item struct {
	Status Status `json:"status" yaml:"status"`
	Label  string `json:"label" yaml:"label"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Section groups related items
type Section struct {
	Title string `json:"title" yaml:"title"`
	Items []Item `json:"items" yaml:"items"`
}

// Report is the output of a flow
type Report struct {
	Title    string     `json:"title" yaml:"title"`
	Sections []*Section `json:"sections" yaml:"sections"`
	Summary  *Item      `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// New creates an empty report
func New(title string) *Report {
	return &Report{Title: title}
}

// Section appends a new section and returns it
func (r *Report) Section(title string) *Section {
	s := &Section{Title: title}
	r.Sections = append(r.Sections, s)
	return s
}

// SetSummary sets the closing line
func (r *Report) SetSummary(status Status, label, detail string) {
	r.Summary = &Item{Status: status, Label: label, Detail: detail}
}

// Count returns how many items have status
func (r *Report) Count(status Status) int {
	n := 0
	for _, s := range r.Sections {
		for _, it := range s.Items {
			if it.Status == status {
				n++
			}
		}
	}
	return n
}

// Add appends an item
func (s *Section) Add(status Status, label, detail string) *Section {
	s.Items = append(s.Items, Item{Status: status, Label: label, Detail: detail})
	return s
}

// OK appends a passing item
func (s *Section) OK(label, detail string) *Section {
	return s.Add(style.StatusOK, label, detail)
}

// Warn appends a warning
func (s *Section) Warn(label, detail string) *Section {
	return s.Add(style.StatusWarn, label, detail)
}

// Fail appends a failing item
func (s *Section) Fail(label, detail string) *Section {
	return s.Add(style.StatusFail, label, detail)
}

// Info appends an informational item
func (s *Section) Info(label, detail string) *Section {
	return s.Add(style.StatusInfo, label, detail)
}

// Error appends a failing item for err, with its captured stderr as a
// second line when present
func (s *Section) Error(label string, err error, stderr string) *Section {
	s.Fail(label, err.Error())
	if stderr != "" {
		s.Info("stderr", stderr)
	}
	return s
}
