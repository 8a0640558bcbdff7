package harness

import "github.com/roach88/cimtab/internal/pipeline"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors contains one message per failed assertion.
	Errors []string `json:"errors,omitempty"`

	// Model is the converted document the assertions ran against.
	Model *pipeline.Model `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
