package analysis

import "fmt"

// ConfigError reports an Analyzer that cannot be built from its options.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis config: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis config: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// BatchError identifies which input of a batch failed.
type BatchError struct {
	Index  int
	Source string
	Cause  error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("analysis of input %d (%s) failed: %v", e.Index, e.Source, e.Cause)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}
