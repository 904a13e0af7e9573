package drafts

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/draftsweep/internal/threshold"
)

const (
	repositoryMissingMessageConstant    = "release repository not configured"
	thresholdRejectedLogMessageConstant = "threshold rejected"
	listingFailedLogMessageConstant     = "release listing failed"
	releasesListedLogMessageConstant    = "releases listed"
	noDraftsSelectedLogMessageConstant  = "no draft releases selected"
	dryRunLogMessageConstant            = "dry run: draft releases would be deleted"
	deletionFailedLogMessageConstant    = "draft release deletion failed"
	deletionsFailedLogMessageConstant   = "draft release deletions failed"
	releasesDeletedLogMessageConstant   = "deleted draft releases"
	logFieldRepositoryConstant          = "repository"
	logFieldThresholdConstant           = "threshold"
	logFieldReleaseCountConstant        = "release_count"
	logFieldSelectedCountConstant       = "selected_count"
	logFieldSelectedReleasesConstant    = "selected_releases"
	logFieldDeletedCountConstant        = "deleted_count"
	logFieldFailedCountConstant         = "failed_count"
	logFieldReleaseIdentifierConstant   = "release_id"
	logFieldStatusCodeConstant          = "status_code"
	logFieldMaxConcurrencyConstant      = "max_concurrency"
)

// ErrRepositoryNotConfigured indicates the service was constructed without a release repository.
var ErrRepositoryNotConfigured = errors.New(repositoryMissingMessageConstant)

// Clock supplies the current time.
type Clock func() time.Time

// Options configures a single sweep.
type Options struct {
	Repository     RepositoryCoordinates
	Threshold      string
	DryRun         bool
	MaxConcurrency int
}

// RunExecutor runs sweeps.
type RunExecutor interface {
	Execute(executionContext context.Context, options Options) RunOutcome
}

// Service lists releases, selects stale drafts, and deletes them.
type Service struct {
	logger     *zap.Logger
	repository ReleaseRepository
	clock      Clock
}

// NewService constructs a Service. A nil logger is replaced with a no-op logger and a nil clock with time.Now.
func NewService(logger *zap.Logger, repository ReleaseRepository, clock Clock) (*Service, error) {
	if repository == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{logger: logger, repository: repository, clock: clock}, nil
}

// Execute performs one sweep. Every failure is reported through the returned outcome.
func (service *Service) Execute(executionContext context.Context, options Options) RunOutcome {
	repositoryField := zap.String(logFieldRepositoryConstant, options.Repository.String())

	limit, parseError := threshold.Parse(options.Threshold)
	if parseError != nil {
		service.logger.Error(thresholdRejectedLogMessageConstant, repositoryField, zap.Error(parseError))
		return failedOutcome(ErrParsingThreshold, parseError)
	}
	thresholdField := zap.Stringer(logFieldThresholdConstant, limit)

	releases, listError := service.repository.ListReleases(executionContext, options.Repository)
	if listError != nil {
		service.logger.Error(listingFailedLogMessageConstant, repositoryField, zap.Error(listError))
		return failedOutcome(ErrListingReleases, listError)
	}
	service.logger.Debug(releasesListedLogMessageConstant, repositoryField, zap.Int(logFieldReleaseCountConstant, len(releases)))

	selected := SelectDrafts(releases, limit, service.clock())
	if len(selected) == 0 {
		service.logger.Info(noDraftsSelectedLogMessageConstant, repositoryField, thresholdField, zap.Int(logFieldReleaseCountConstant, len(releases)))
		return completedOutcome(selected, nil, options.DryRun)
	}

	if options.DryRun {
		service.logger.Info(
			dryRunLogMessageConstant,
			repositoryField,
			thresholdField,
			zap.Int(logFieldSelectedCountConstant, len(selected)),
			zap.Int64s(logFieldSelectedReleasesConstant, releaseIdentifierValues(selected)),
		)
		return completedOutcome(selected, nil, true)
	}

	deleteFunction := func(deleteContext context.Context, releaseID ReleaseIdentifier) (DeletionResult, error) {
		return service.repository.DeleteRelease(deleteContext, options.Repository, releaseID)
	}
	results := DeleteAll(executionContext, selected, deleteFunction, options.MaxConcurrency)
	outcome := AggregateDeletions(selected, results)

	for _, result := range results {
		if result.Succeeded() {
			continue
		}
		service.logger.Warn(
			deletionFailedLogMessageConstant,
			repositoryField,
			zap.Int64(logFieldReleaseIdentifierConstant, int64(result.ReleaseID)),
			zap.Int(logFieldStatusCodeConstant, result.StatusCode),
			zap.Error(result.Error),
		)
	}

	summaryFields := []zap.Field{
		repositoryField,
		thresholdField,
		zap.Int(logFieldSelectedCountConstant, len(selected)),
		zap.Int(logFieldDeletedCountConstant, outcome.DeletedCount()),
		zap.Int(logFieldFailedCountConstant, outcome.FailedCount()),
		zap.Int(logFieldMaxConcurrencyConstant, options.MaxConcurrency),
	}
	if outcome.Failed() {
		service.logger.Error(deletionsFailedLogMessageConstant, summaryFields...)
		return outcome
	}

	service.logger.Info(releasesDeletedLogMessageConstant, summaryFields...)
	return outcome
}

func releaseIdentifierValues(identifiers []ReleaseIdentifier) []int64 {
	values := make([]int64, 0, len(identifiers))
	for _, identifier := range identifiers {
		values = append(values, int64(identifier))
	}
	return values
}
