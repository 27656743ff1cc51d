package mcsim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfig indicates a bad or missing construction argument.
	ErrConfig = errors.New("mcsim: invalid configuration")

	// ErrVersionMismatch indicates a serialized layer with an unexpected format version.
	ErrVersionMismatch = errors.New("mcsim: serialization version mismatch")

	// ErrUnregistered indicates a type name with no registry entry.
	ErrUnregistered = errors.New("mcsim: type not registered")

	// ErrDuplicateType indicates a second registration under an existing name.
	ErrDuplicateType = errors.New("mcsim: type already registered")

	// ErrMalformedStream indicates a truncated or unparsable serialized stream.
	ErrMalformedStream = errors.New("mcsim: malformed stream")

	// ErrSamplingExhausted indicates a rejection sampler hit its attempt cap.
	ErrSamplingExhausted = errors.New("mcsim: rejection sampling exhausted")

	// ErrEnergyDrift indicates the running energy diverged beyond tolerance.
	ErrEnergyDrift = errors.New("mcsim: energy check failure")
)

// ConfigError reports the argument key that could not be used.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mcsim: argument %q: %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError is a shorthand for the common construction-time failure.
func NewConfigError(key, format string, a ...any) error {
	return &ConfigError{Key: key, Reason: fmt.Sprintf(format, a...)}
}

// VersionError reports which class layer failed its version assertion.
type VersionError struct {
	Class string
	Got   int
	Want  int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("mcsim: %s: version mismatch: got %d, want %d", e.Class, e.Got, e.Want)
}

func (e *VersionError) Unwrap() error { return ErrVersionMismatch }

// SamplingExhaustedError carries the attempt cap that was reached.
type SamplingExhaustedError struct {
	Class       string
	MaxAttempts int
}

func (e *SamplingExhaustedError) Error() string {
	return fmt.Sprintf("mcsim: %s: max_attempts(%d) reached without acceptance", e.Class, e.MaxAttempts)
}

func (e *SamplingExhaustedError) Unwrap() error { return ErrSamplingExhausted }

// EnergyDriftError wraps an energy check failure with both energies.
type EnergyDriftError struct {
	Energy        float64
	RunningEnergy float64
	Tolerance     float64
	Breakdown     string
}

// Difference is the absolute discrepancy that failed the check.
func (e *EnergyDriftError) Difference() float64 {
	d := e.Energy - e.RunningEnergy
	if d < 0 {
		return -d
	}
	return d
}

func (e *EnergyDriftError) Error() string {
	return fmt.Sprintf("mcsim: energy check failure: the unoptimized energy of the entire "+
		"configuration was computed as %.17g but the running energy is %.17g. "+
		"The difference(%.17g) is greater than the tolerance(%.17g). %s",
		e.Energy, e.RunningEnergy, e.Difference(), e.Tolerance, e.Breakdown)
}

func (e *EnergyDriftError) Unwrap() error { return ErrEnergyDrift }
