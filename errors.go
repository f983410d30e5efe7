package nbodyforce

import "fmt"

// ConfigError reports a precondition violation detected at
// construction (spec §7). The only such check in this package is
// BarnesHutConfig.Validate's rejection of a negative opening angle;
// affected and affecting share one vector type, so their dimensions
// cannot differ, and the SIMD lane width is not validated. Modeled on the teacher's
// internal/store.NotFoundError: a struct implementing error and Is,
// rather than a bare errors.New sentinel, so callers can distinguish
// "bad config" from other error classes with errors.As.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("nbodyforce: %s", e.Reason) }

func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}
