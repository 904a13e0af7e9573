package drafts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	repositoryCoordinatesSeparatorConstant       = "/"
	repositoryCoordinatesTemplateConstant        = "%s/%s"
	repositoryCoordinatesMissingMessageConstant  = "repository must be provided as owner/name"
	repositoryCoordinatesInvalidTemplateConstant = "repository %q must be provided as owner/name"
	deletionFailureStatusTemplateConstant        = "release %d deletion returned status %d"
	deletionFailureCauseTemplateConstant         = "release %d deletion failed: %v"
	releaseDeletedStatusCodeConstant             = http.StatusNoContent
)

// ReleaseDeletedStatusCode is the status the release host answers a successful deletion with.
const ReleaseDeletedStatusCode = releaseDeletedStatusCodeConstant

// ReleaseIdentifier is the opaque key a release is deleted by.
type ReleaseIdentifier int64

// Release is the subset of hosted release metadata the sweep inspects.
type Release struct {
	ID        ReleaseIdentifier
	TagName   string
	Draft     bool
	CreatedAt time.Time
}

// RepositoryCoordinates identifies the repository whose releases are swept.
type RepositoryCoordinates struct {
	Owner string
	Name  string
}

// ParseRepositoryCoordinates interprets owner/name repository references.
func ParseRepositoryCoordinates(repositoryValue string) (RepositoryCoordinates, error) {
	trimmedValue := strings.TrimSpace(repositoryValue)
	if len(trimmedValue) == 0 {
		return RepositoryCoordinates{}, errors.New(repositoryCoordinatesMissingMessageConstant)
	}

	components := strings.Split(trimmedValue, repositoryCoordinatesSeparatorConstant)
	if len(components) != 2 {
		return RepositoryCoordinates{}, fmt.Errorf(repositoryCoordinatesInvalidTemplateConstant, repositoryValue)
	}

	coordinates := RepositoryCoordinates{
		Owner: strings.TrimSpace(components[0]),
		Name:  strings.TrimSpace(components[1]),
	}
	if len(coordinates.Owner) == 0 || len(coordinates.Name) == 0 {
		return RepositoryCoordinates{}, fmt.Errorf(repositoryCoordinatesInvalidTemplateConstant, repositoryValue)
	}

	return coordinates, nil
}

// String renders the coordinates as owner/name.
func (coordinates RepositoryCoordinates) String() string {
	return fmt.Sprintf(repositoryCoordinatesTemplateConstant, coordinates.Owner, coordinates.Name)
}

// DeletionResult captures the response to a single delete request.
type DeletionResult struct {
	ReleaseID  ReleaseIdentifier
	StatusCode int
	Error      error
}

// Succeeded reports whether the release host confirmed the deletion.
func (result DeletionResult) Succeeded() bool {
	return result.Error == nil && result.StatusCode == ReleaseDeletedStatusCode
}

// DeletionFailureError describes a release that could not be deleted.
type DeletionFailureError struct {
	ReleaseID  ReleaseIdentifier
	StatusCode int
	Cause      error
}

// Error describes the failed deletion.
func (failureError DeletionFailureError) Error() string {
	if failureError.Cause != nil {
		return fmt.Sprintf(deletionFailureCauseTemplateConstant, failureError.ReleaseID, failureError.Cause)
	}
	return fmt.Sprintf(deletionFailureStatusTemplateConstant, failureError.ReleaseID, failureError.StatusCode)
}

// Unwrap exposes the transport error, if any.
func (failureError DeletionFailureError) Unwrap() error {
	return failureError.Cause
}

//go:generate mockgen -destination=mocks/release_repository_mock.go -package=mocks github.com/temirov/draftsweep/internal/drafts ReleaseRepository

// ReleaseRepository lists and deletes releases on the hosting platform.
// Implementations own authentication, pagination, and transport concerns.
type ReleaseRepository interface {
	ListReleases(executionContext context.Context, coordinates RepositoryCoordinates) ([]Release, error)
	DeleteRelease(executionContext context.Context, coordinates RepositoryCoordinates, releaseID ReleaseIdentifier) (DeletionResult, error)
}
