package threshold

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

const (
	invalidDurationMessageConstant       = "invalid duration"
	invalidDurationTemplateConstant      = "invalid duration %q"
	invalidDurationCauseTemplateConstant = "invalid duration %q: %v"
	negativeDurationMessageConstant      = "duration must not be negative"
	durationOutOfRangeMessageConstant    = "duration is out of range"
	absentThresholdDescriptionConstant   = "none"
	maximumRepresentableSecondsConstant  = float64(math.MaxInt64) / float64(time.Second)
)

// ErrInvalidDuration marks every threshold parsing failure.
var ErrInvalidDuration = errors.New(invalidDurationMessageConstant)

// InvalidDurationError reports a threshold value that is present but cannot be interpreted.
type InvalidDurationError struct {
	Value string
	Cause error
}

// Error describes the rejected value.
func (durationError *InvalidDurationError) Error() string {
	if durationError.Cause == nil {
		return fmt.Sprintf(invalidDurationTemplateConstant, durationError.Value)
	}
	return fmt.Sprintf(invalidDurationCauseTemplateConstant, durationError.Value, durationError.Cause)
}

// Unwrap exposes the underlying parser error.
func (durationError *InvalidDurationError) Unwrap() error {
	return durationError.Cause
}

// Is matches ErrInvalidDuration.
func (durationError *InvalidDurationError) Is(target error) bool {
	return target == ErrInvalidDuration
}

// Threshold is an optional non-negative age limit.
type Threshold struct {
	duration time.Duration
	present  bool
}

// FromDuration constructs a present threshold. Negative durations are clamped to zero.
func FromDuration(duration time.Duration) Threshold {
	if duration < 0 {
		duration = 0
	}
	return Threshold{duration: duration, present: true}
}

// Parse converts a configured duration string into a Threshold.
// Blank input yields an absent threshold and no error.
func Parse(rawValue string) (Threshold, error) {
	trimmedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(trimmedValue) == 0 {
		return Threshold{}, nil
	}

	if seconds, numberError := strconv.ParseFloat(trimmedValue, 64); numberError == nil {
		return fromSeconds(rawValue, seconds)
	}

	parsedDuration, parseError := str2duration.ParseDuration(trimmedValue)
	if parseError != nil {
		return Threshold{}, &InvalidDurationError{Value: rawValue, Cause: parseError}
	}
	if parsedDuration < 0 {
		return Threshold{}, &InvalidDurationError{Value: rawValue, Cause: errors.New(negativeDurationMessageConstant)}
	}

	return FromDuration(parsedDuration), nil
}

func fromSeconds(rawValue string, seconds float64) (Threshold, error) {
	switch {
	case math.IsNaN(seconds) || math.IsInf(seconds, 0):
		return Threshold{}, &InvalidDurationError{Value: rawValue, Cause: errors.New(durationOutOfRangeMessageConstant)}
	case seconds < 0:
		return Threshold{}, &InvalidDurationError{Value: rawValue, Cause: errors.New(negativeDurationMessageConstant)}
	case seconds >= maximumRepresentableSecondsConstant:
		return Threshold{}, &InvalidDurationError{Value: rawValue, Cause: errors.New(durationOutOfRangeMessageConstant)}
	}
	return FromDuration(time.Duration(seconds * float64(time.Second))), nil
}

// Present reports whether a threshold was configured.
func (limit Threshold) Present() bool {
	return limit.present
}

// Duration returns the configured age limit, zero when absent.
func (limit Threshold) Duration() time.Duration {
	return limit.duration
}

// Seconds returns the configured age limit in whole seconds.
func (limit Threshold) Seconds() int64 {
	return int64(limit.duration / time.Second)
}

// Cutoff returns the instant a release must predate to exceed the threshold.
func (limit Threshold) Cutoff(now time.Time) time.Time {
	return now.Add(-limit.duration)
}

// String renders the threshold for logs.
func (limit Threshold) String() string {
	if !limit.present {
		return absentThresholdDescriptionConstant
	}
	return limit.duration.String()
}
