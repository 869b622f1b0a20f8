package scoring

import "fmt"

// UnknownStrategyError is returned by NewStrategy for names it does not know.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown scoring strategy %q (want %q or %q)", e.Name, StrategyStatic, StrategyDynamic)
}

// ConfigError reports a strategy that cannot be built from the given dependencies.
type ConfigError struct {
	Strategy string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scoring strategy %s: %s", e.Strategy, e.Message)
}
