package domain

// StepStatus is the outcome of one setup step
type StepStatus string

const (
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepReport records a single setup step
type StepReport struct {
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	Detail    string     `json:"detail,omitempty"`
	ErrorKind string     `json:"error_kind,omitempty"`
	Error     string     `json:"error,omitempty"`
	Output    []string   `json:"output,omitempty"`
	Duration  string     `json:"duration"`
}

// SetupMeta contains metadata about a setup run
type SetupMeta struct {
	Suite           string  `json:"suite"`
	DatabaseName    string  `json:"database_name,omitempty"`
	Platform        string  `json:"platform,omitempty"`
	ProjectRoot     string  `json:"project_root,omitempty"`
	Success         bool    `json:"success"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// SetupReport is the complete output structure for a setup run
type SetupReport struct {
	Meta  SetupMeta    `json:"meta"`
	Steps []StepReport `json:"steps"`
}

// FailedStep returns the first failed step, or nil
func (r *SetupReport) FailedStep() *StepReport {
	for i := range r.Steps {
		if r.Steps[i].Status == StepFailed {
			return &r.Steps[i]
		}
	}
	return nil
}
