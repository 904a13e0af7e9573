package githubapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v68/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/temirov/draftsweep/internal/drafts"
)

// Repository defaults.
const (
	DefaultPageSize          = 100
	DefaultListRetryAttempts = 3
	DefaultRequestTimeout    = 30 * time.Second
	// MaxPages is the default pagination bound; a listing that would exceed it fails.
	MaxPages = 1000
)

const (
	maximumPageSizeConstant             = 100
	baseURLTrailingSlashConstant        = "/"
	userAgentConstant                   = "draftsweep"
	ownerFieldNameConstant              = "owner"
	repositoryFieldNameConstant         = "repository"
	baseURLFieldNameConstant            = "base_url"
	requiredValueMessageConstant        = "value required"
	initialRetryIntervalConstant        = 500 * time.Millisecond
	maximumRetryElapsedTimeConstant     = 30 * time.Second
	retryingListLogMessageConstant      = "retrying release page"
	releasePageListedLogMessageConstant = "release page listed"
	paginationLimitLogMessageConstant   = "release pagination limit reached"
	releaseDeletedLogMessageConstant    = "release deleted"
	logFieldRepositoryConstant          = "repository"
	logFieldPageConstant                = "page"
	logFieldReleaseCountConstant        = "release_count"
	logFieldStatusCodeConstant          = "status_code"
	logFieldReleaseIdentifierConstant   = "release_id"
)

var _ drafts.ReleaseRepository = (*ReleaseRepository)(nil)

// BackOffFactory creates the retry policy for a single page request.
type BackOffFactory func() backoff.BackOff

// ServiceConfiguration tunes the GitHub release repository.
type ServiceConfiguration struct {
	BaseURL           string
	PageSize          int
	RequestTimeout    time.Duration
	ListRetryAttempts int
	HTTPClient        *http.Client
	BackOffFactory    BackOffFactory
	MaxPages          int
}

// ReleaseRepository lists and deletes GitHub releases.
type ReleaseRepository struct {
	logger            *zap.Logger
	client            *github.Client
	pageSize          int
	listRetryAttempts int
	backOffFactory    BackOffFactory
	maxPages          int
}

// NewReleaseRepository constructs a repository authenticated with the provided token.
// An empty token produces unauthenticated requests.
func NewReleaseRepository(logger *zap.Logger, token string, configuration ServiceConfiguration) (*ReleaseRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := github.NewClient(buildHTTPClient(token, configuration))
	client.UserAgent = userAgentConstant

	trimmedBaseURL := strings.TrimSpace(configuration.BaseURL)
	if len(trimmedBaseURL) > 0 {
		if !strings.HasSuffix(trimmedBaseURL, baseURLTrailingSlashConstant) {
			trimmedBaseURL += baseURLTrailingSlashConstant
		}
		parsedBaseURL, parseError := url.Parse(trimmedBaseURL)
		if parseError != nil {
			return nil, InvalidInputError{FieldName: baseURLFieldNameConstant, Message: parseError.Error()}
		}
		client.BaseURL = parsedBaseURL
	}

	pageSize := configuration.PageSize
	if pageSize <= 0 || pageSize > maximumPageSizeConstant {
		pageSize = DefaultPageSize
	}

	listRetryAttempts := configuration.ListRetryAttempts
	if listRetryAttempts < 0 {
		listRetryAttempts = 0
	}

	backOffFactory := configuration.BackOffFactory
	if backOffFactory == nil {
		backOffFactory = defaultBackOff
	}

	maxPages := configuration.MaxPages
	if maxPages <= 0 {
		maxPages = MaxPages
	}

	return &ReleaseRepository{
		logger:            logger,
		client:            client,
		pageSize:          pageSize,
		listRetryAttempts: listRetryAttempts,
		backOffFactory:    backOffFactory,
		maxPages:          maxPages,
	}, nil
}

// ListReleases returns every release of the repository in API order, following pagination.
func (repository *ReleaseRepository) ListReleases(executionContext context.Context, coordinates drafts.RepositoryCoordinates) ([]drafts.Release, error) {
	if validationError := validateCoordinates(coordinates); validationError != nil {
		return nil, validationError
	}

	repositoryField := zap.String(logFieldRepositoryConstant, coordinates.String())
	listOptions := github.ListOptions{PerPage: repository.pageSize}
	releases := make([]drafts.Release, 0)

	for pageCount := 0; ; pageCount++ {
		if pageCount >= repository.maxPages {
			repository.logger.Warn(paginationLimitLogMessageConstant, repositoryField, zap.Int(logFieldPageConstant, listOptions.Page))
			return nil, OperationError{
				Operation: listReleasesOperationNameConstant,
				Cause:     PaginationLimitError{Operation: listReleasesOperationNameConstant, PageLimit: repository.maxPages},
			}
		}

		pageReleases, pageResponse, pageError := repository.listReleasePage(executionContext, coordinates, listOptions)
		if pageError != nil {
			return nil, OperationError{Operation: listReleasesOperationNameConstant, Cause: pageError}
		}
		if pageResponse == nil || pageResponse.Response == nil || pageResponse.StatusCode != http.StatusOK {
			return nil, OperationError{
				Operation: listReleasesOperationNameConstant,
				Cause:     UnexpectedStatusError{Operation: listReleasesOperationNameConstant, StatusCode: responseStatusCode(pageResponse)},
			}
		}

		for _, pageRelease := range pageReleases {
			if pageRelease == nil {
				continue
			}
			releases = append(releases, convertRelease(pageRelease))
		}

		repository.logger.Debug(
			releasePageListedLogMessageConstant,
			repositoryField,
			zap.Int(logFieldPageConstant, listOptions.Page),
			zap.Int(logFieldReleaseCountConstant, len(pageReleases)),
		)

		if pageResponse.NextPage == 0 {
			break
		}
		listOptions.Page = pageResponse.NextPage
	}

	return releases, nil
}

// DeleteRelease removes a release and reports the response status.
func (repository *ReleaseRepository) DeleteRelease(executionContext context.Context, coordinates drafts.RepositoryCoordinates, releaseID drafts.ReleaseIdentifier) (drafts.DeletionResult, error) {
	result := drafts.DeletionResult{ReleaseID: releaseID}
	if validationError := validateCoordinates(coordinates); validationError != nil {
		result.Error = validationError
		return result, validationError
	}

	response, deleteError := repository.client.Repositories.DeleteRelease(executionContext, coordinates.Owner, coordinates.Name, int64(releaseID))
	result.StatusCode = responseStatusCode(response)
	if deleteError != nil {
		wrappedError := OperationError{Operation: deleteReleaseOperationNameConstant, Cause: deleteError}
		result.Error = wrappedError
		return result, wrappedError
	}

	repository.logger.Debug(
		releaseDeletedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, coordinates.String()),
		zap.Int64(logFieldReleaseIdentifierConstant, int64(releaseID)),
		zap.Int(logFieldStatusCodeConstant, result.StatusCode),
	)

	return result, nil
}

func (repository *ReleaseRepository) listReleasePage(executionContext context.Context, coordinates drafts.RepositoryCoordinates, listOptions github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
	var pageReleases []*github.RepositoryRelease
	var pageResponse *github.Response

	listOperation := func() error {
		releases, response, listError := repository.client.Repositories.ListReleases(executionContext, coordinates.Owner, coordinates.Name, &listOptions)
		pageResponse = response
		if listError != nil {
			if !retryableListFailure(executionContext, response) {
				return backoff.Permanent(listError)
			}
			repository.logger.Debug(
				retryingListLogMessageConstant,
				zap.String(logFieldRepositoryConstant, coordinates.String()),
				zap.Int(logFieldPageConstant, listOptions.Page),
				zap.Int(logFieldStatusCodeConstant, responseStatusCode(response)),
				zap.Error(listError),
			)
			return listError
		}
		pageReleases = releases
		return nil
	}

	retryPolicy := backoff.WithContext(backoff.WithMaxRetries(repository.backOffFactory(), uint64(repository.listRetryAttempts)), executionContext)
	if retryError := backoff.Retry(listOperation, retryPolicy); retryError != nil {
		return nil, pageResponse, retryError
	}

	return pageReleases, pageResponse, nil
}

func retryableListFailure(executionContext context.Context, response *github.Response) bool {
	if executionContext.Err() != nil {
		return false
	}
	if response == nil || response.Response == nil {
		return true
	}
	return response.StatusCode >= http.StatusInternalServerError || response.StatusCode == http.StatusTooManyRequests
}

func responseStatusCode(response *github.Response) int {
	if response == nil || response.Response == nil {
		return 0
	}
	return response.StatusCode
}

func convertRelease(release *github.RepositoryRelease) drafts.Release {
	return drafts.Release{
		ID:        drafts.ReleaseIdentifier(release.GetID()),
		TagName:   release.GetTagName(),
		Draft:     release.GetDraft(),
		CreatedAt: release.GetCreatedAt().Time,
	}
}

func validateCoordinates(coordinates drafts.RepositoryCoordinates) error {
	if len(strings.TrimSpace(coordinates.Owner)) == 0 {
		return InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(coordinates.Name)) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

func buildHTTPClient(token string, configuration ServiceConfiguration) *http.Client {
	requestTimeout := configuration.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		if configuration.HTTPClient != nil {
			return configuration.HTTPClient
		}
		return &http.Client{Timeout: requestTimeout}
	}

	clientContext := context.Background()
	if configuration.HTTPClient != nil {
		clientContext = context.WithValue(clientContext, oauth2.HTTPClient, configuration.HTTPClient)
	}
	authenticatedClient := oauth2.NewClient(clientContext, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken}))
	authenticatedClient.Timeout = requestTimeout
	return authenticatedClient
}

func defaultBackOff() backoff.BackOff {
	exponentialBackOff := backoff.NewExponentialBackOff()
	exponentialBackOff.InitialInterval = initialRetryIntervalConstant
	exponentialBackOff.MaxElapsedTime = maximumRetryElapsedTimeConstant
	return exponentialBackOff
}
