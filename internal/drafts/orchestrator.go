package drafts

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

const (
	deleteFunctionMissingMessageConstant = "delete function not configured"
)

var errDeleteFunctionMissing = errors.New(deleteFunctionMissingMessageConstant)

// DeleteFunction removes a single release.
type DeleteFunction func(executionContext context.Context, releaseID ReleaseIdentifier) (DeletionResult, error)

// DeleteAll issues one delete per selected release concurrently and waits for all of them to settle.
// A failing deletion never cancels its siblings. Results are returned in selection order.
// maxConcurrency bounds the number of deletions in flight; zero or less leaves it unbounded.
func DeleteAll(executionContext context.Context, selected []ReleaseIdentifier, deleteFunction DeleteFunction, maxConcurrency int) []DeletionResult {
	results := make([]DeletionResult, len(selected))
	if len(selected) == 0 {
		return results
	}

	var deletionGroup errgroup.Group
	if maxConcurrency > 0 {
		deletionGroup.SetLimit(maxConcurrency)
	}

	for selectionIndex, releaseID := range selected {
		deletionGroup.Go(func() error {
			results[selectionIndex] = deleteRelease(executionContext, releaseID, deleteFunction)
			return nil
		})
	}

	_ = deletionGroup.Wait()

	return results
}

func deleteRelease(executionContext context.Context, releaseID ReleaseIdentifier, deleteFunction DeleteFunction) DeletionResult {
	if deleteFunction == nil {
		return DeletionResult{ReleaseID: releaseID, Error: errDeleteFunctionMissing}
	}

	result, deleteError := deleteFunction(executionContext, releaseID)
	result.ReleaseID = releaseID
	if deleteError != nil && result.Error == nil {
		result.Error = deleteError
	}
	return result
}

// AggregateDeletions folds per-release results into the run outcome.
// Any unconfirmed deletion fails the run; an empty result set completes it.
func AggregateDeletions(selected []ReleaseIdentifier, results []DeletionResult) RunOutcome {
	var failureErrors []error
	for _, result := range results {
		if result.Succeeded() {
			continue
		}
		failureErrors = append(failureErrors, DeletionFailureError{
			ReleaseID:  result.ReleaseID,
			StatusCode: result.StatusCode,
			Cause:      result.Error,
		})
	}

	if len(failureErrors) > 0 {
		outcome := failedOutcome(ErrDeletingReleases, errors.Join(failureErrors...))
		outcome.Selected = selected
		outcome.Results = results
		return outcome
	}

	return completedOutcome(selected, results, false)
}
