package domain

// StepStatus is the outcome of a best-effort side effect.
type StepStatus string

const (
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
	StepSucceeded StepStatus = "succeeded"
)

// StepResult records what happened to one optional step of the intake workflow.
// Reason is set for skipped and failed steps, Info for succeeded ones.
type StepResult struct {
	Status StepStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
	Info   string     `json:"info,omitempty"`
}

// Skipped records a step that was not attempted.
func Skipped(reason string) StepResult { return StepResult{Status: StepSkipped, Reason: reason} }

// Failed records a step that was attempted and did not complete.
func Failed(reason string) StepResult { return StepResult{Status: StepFailed, Reason: reason} }

// Succeeded records a completed step and what it produced.
func Succeeded(info string) StepResult { return StepResult{Status: StepSucceeded, Info: info} }

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Status == StepSucceeded }

// ReasonPtr returns the reason for a step that did not succeed, nil otherwise.
func (r StepResult) ReasonPtr() *string {
	if r.OK() {
		return nil
	}
	reason := r.Reason
	return &reason
}
