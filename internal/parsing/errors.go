package parsing

import "fmt"

// StrategyError reports an unknown extraction strategy name.
type StrategyError struct {
	Kind string
	Name string
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("unknown %s strategy %q", e.Kind, e.Name)
}
