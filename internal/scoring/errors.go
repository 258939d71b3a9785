package scoring

import "fmt"

// ConfigError reports a period configuration that cannot be used for
// scoring. It is raised before any component calculator runs and is never
// silently corrected.
type ConfigError struct {
	Period string
	Sum    float64 // actual sum of enabled component weights
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("period %q: %s", e.Period, e.Reason)
	}
	return fmt.Sprintf("period %q: enabled component weights sum to %.2f, must sum to 100", e.Period, e.Sum)
}

// GradeExceedsMaxError reports a submitted grade above the deadline-capped
// maximum. Recoverable: the caller may re-prompt for a valid grade or apply
// an excuse.
type GradeExceedsMaxError struct {
	Grade      int
	MaxAllowed int
}

func (e *GradeExceedsMaxError) Error() string {
	return fmt.Sprintf("grade %d exceeds the maximum of %d allowed for this submission", e.Grade, e.MaxAllowed)
}
