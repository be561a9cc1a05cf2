package jobscript

import "fmt"

// ConfigurationError is returned when a run configuration is missing a
// parameter its execution mode requires, or carries an invalid value.
type ConfigurationError struct {
	Mode   Mode
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Mode == "" {
		return fmt.Sprintf("jobscript: invalid configuration: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("jobscript: invalid %s configuration: %s %s", e.Mode, e.Field, e.Reason)
}
