package budget

import (
	"errors"
	"fmt"

	"github.com/bayneri/lossbudget/internal/standards"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfRange   = errors.New("distance out of range")
	ErrConfig       = errors.New("configuration error")
)

// InputError is a malformed or missing value. Segment is 1-based; 0 means a
// link-wide parameter.
type InputError struct {
	Segment int
	Field   string
	Reason  string
}

func (e *InputError) Error() string {
	if e.Segment > 0 {
		return fmt.Sprintf("segment %d: %s %s", e.Segment, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// RangeError reports a segment longer than its fiber type allows.
type RangeError struct {
	Segment    int
	Distance   float64
	Unit       DistanceUnit
	DistanceKm float64
	Fiber      standards.FiberType
	MaxKm      float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("segment %d: distance of %g %s exceeds max for %s (%g km) by %.3f km",
		e.Segment, e.Distance, e.Unit, e.Fiber, e.MaxKm, e.ExcessKm())
}

func (e *RangeError) ExcessKm() float64 {
	return e.DistanceKm - e.MaxKm
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// ConfigError wraps a failed lookup into the standards table.
type ConfigError struct {
	Segment int
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Segment > 0 {
		return fmt.Sprintf("segment %d: %v", e.Segment, e.Err)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() []error { return []error{ErrConfig, e.Err} }
