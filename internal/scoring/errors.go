package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// InsufficientDataError reports that a score could not be computed from the
// available statement figures. It is an expected, recoverable condition:
// callers catch it and render a no-data state instead of propagating.
type InsufficientDataError struct {
	Reason        string
	MissingFields []string
}

func (e *InsufficientDataError) Error() string {
	if len(e.MissingFields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (missing: %s)", e.Reason, strings.Join(e.MissingFields, ", "))
}

// IsInsufficientData reports whether err is (or wraps) an
// InsufficientDataError.
func IsInsufficientData(err error) bool {
	var t *InsufficientDataError
	return errors.As(err, &t)
}
