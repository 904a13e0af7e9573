package drafts

import (
	"errors"
)

// Failure messages surfaced to the host environment. Downstream tooling matches on them verbatim.
const (
	ListingFailureMessage   = "Error listing releases"
	DeletionFailureMessage  = "Error deleting releases"
	ThresholdFailureMessage = "Error parsing threshold"
)

var (
	// ErrListingReleases marks runs that could not obtain the release list.
	ErrListingReleases = errors.New(ListingFailureMessage)
	// ErrDeletingReleases marks runs where at least one deletion failed.
	ErrDeletingReleases = errors.New(DeletionFailureMessage)
	// ErrParsingThreshold marks runs rejected because the configured threshold is malformed.
	ErrParsingThreshold = errors.New(ThresholdFailureMessage)
)

// OutcomeStatus is the terminal state of a run.
type OutcomeStatus string

// Terminal run states.
const (
	OutcomeStatusCompleted OutcomeStatus = OutcomeStatus("completed")
	OutcomeStatusFailed    OutcomeStatus = OutcomeStatus("failed")
)

// RunOutcome summarizes one sweep.
type RunOutcome struct {
	Status   OutcomeStatus
	Message  string
	Selected []ReleaseIdentifier
	Results  []DeletionResult
	DryRun   bool
	Cause    error

	failure error
}

// Failed reports whether the run ended in the failed state.
func (outcome RunOutcome) Failed() bool {
	return outcome.Status == OutcomeStatusFailed
}

// DeletedCount returns the number of confirmed deletions.
func (outcome RunOutcome) DeletedCount() int {
	deletedCount := 0
	for _, result := range outcome.Results {
		if result.Succeeded() {
			deletedCount++
		}
	}
	return deletedCount
}

// FailedCount returns the number of deletions that were not confirmed.
func (outcome RunOutcome) FailedCount() int {
	return len(outcome.Results) - outcome.DeletedCount()
}

// Err converts a failed outcome into an error whose message is the outcome message.
func (outcome RunOutcome) Err() error {
	if !outcome.Failed() {
		return nil
	}
	failure := outcome.failure
	if failure == nil {
		failure = failureForMessage(outcome.Message)
	}
	return &RunError{Message: outcome.Message, Sentinel: failure, Cause: outcome.Cause}
}

// failureForMessage maps a known failure message back to its sentinel.
func failureForMessage(message string) error {
	for _, knownFailure := range []error{ErrListingReleases, ErrDeletingReleases, ErrParsingThreshold} {
		if knownFailure.Error() == message {
			return knownFailure
		}
	}
	return nil
}

// RunError is returned for failed runs.
type RunError struct {
	Message  string
	Sentinel error
	Cause    error
}

// Error returns the failure message unchanged.
func (runError *RunError) Error() string {
	return runError.Message
}

// Unwrap exposes both the failure class and its cause.
func (runError *RunError) Unwrap() []error {
	unwrapped := make([]error, 0, 2)
	if runError.Sentinel != nil {
		unwrapped = append(unwrapped, runError.Sentinel)
	}
	if runError.Cause != nil {
		unwrapped = append(unwrapped, runError.Cause)
	}
	return unwrapped
}

func completedOutcome(selected []ReleaseIdentifier, results []DeletionResult, dryRun bool) RunOutcome {
	return RunOutcome{
		Status:   OutcomeStatusCompleted,
		Selected: selected,
		Results:  results,
		DryRun:   dryRun,
	}
}

func failedOutcome(failure error, cause error) RunOutcome {
	return RunOutcome{
		Status:  OutcomeStatusFailed,
		Message: failure.Error(),
		Cause:   cause,
		failure: failure,
	}
}
