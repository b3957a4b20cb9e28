package classificationservice

import (
	"errors"
	"fmt"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

var (
	// ErrNoScoringSystem means neither the category nor the championship has a
	// scoring system configured.
	ErrNoScoringSystem = errors.New("no scoring system configured")

	// ErrUnknownScope means the scope references a season or category that
	// does not exist.
	ErrUnknownScope = errors.New("scope references unknown season or category")
)

// ConfigurationError marks recompute failures caused by championship setup
// rather than by infrastructure. Jobs hitting one are not retried, since
// retrying cannot fix the configuration.
type ConfigurationError struct {
	Scope classificationdomain.Scope
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("classification configuration for scope %s: %v", e.Scope.Key(), e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err carries a ConfigurationError
// anywhere in its chain.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
