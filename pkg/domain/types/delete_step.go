package types

import "fmt"

// DeleteStep is one stage of the cascading session delete. Steps run in the
// order returned by AllDeleteSteps and each step is idempotent, so a delete
// that failed part way can be re-invoked and resumes from the top.
type DeleteStep string

const (
	DeleteStepRequested     DeleteStep = "requested"
	DeleteStepImageFile     DeleteStep = "image_file"
	DeleteStepPluginResults DeleteStep = "plugin_results"
	DeleteStepArtifacts     DeleteStep = "artifacts"
	DeleteStepRecords       DeleteStep = "records"
	DeleteStepComments      DeleteStep = "comments"
	DeleteStepSession       DeleteStep = "session"
	DeleteStepComplete      DeleteStep = "complete"
)

// AllDeleteSteps returns every step in execution order
func AllDeleteSteps() []DeleteStep {
	return []DeleteStep{
		DeleteStepRequested,
		DeleteStepImageFile,
		DeleteStepPluginResults,
		DeleteStepArtifacts,
		DeleteStepRecords,
		DeleteStepComments,
		DeleteStepSession,
		DeleteStepComplete,
	}
}

// IsValid checks if the delete step is valid
func (s DeleteStep) IsValid() bool {
	for _, step := range AllDeleteSteps() {
		if s == step {
			return true
		}
	}
	return false
}

// Next returns the step that follows s. The final step returns itself.
func (s DeleteStep) Next() DeleteStep {
	steps := AllDeleteSteps()
	for i, step := range steps {
		if s == step {
			if i == len(steps)-1 {
				return step
			}
			return steps[i+1]
		}
	}
	return DeleteStepRequested
}

// String returns the string representation of the delete step
func (s DeleteStep) String() string {
	return string(s)
}

// ParseDeleteStep parses a string into a DeleteStep
func ParseDeleteStep(s string) (DeleteStep, error) {
	step := DeleteStep(s)
	if !step.IsValid() {
		return "", fmt.Errorf("invalid delete step: %s", s)
	}
	return step, nil
}
