package drafts_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/draftsweep/internal/drafts"
	"github.com/temirov/draftsweep/internal/drafts/mocks"
)

var (
	serviceReferenceTime  = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	serviceTestRepository = drafts.RepositoryCoordinates{Owner: "owner", Name: "repo"}
)

type stubReleaseRepository struct {
	releases      []drafts.Release
	listError     error
	statusByID    map[drafts.ReleaseIdentifier]int
	mutex         sync.Mutex
	listCalls     int
	deleteCalls   []drafts.ReleaseIdentifier
	deleteTargets []drafts.RepositoryCoordinates
}

func (repository *stubReleaseRepository) ListReleases(executionContext context.Context, coordinates drafts.RepositoryCoordinates) ([]drafts.Release, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	repository.listCalls++
	if repository.listError != nil {
		return nil, repository.listError
	}
	return repository.releases, nil
}

func (repository *stubReleaseRepository) DeleteRelease(executionContext context.Context, coordinates drafts.RepositoryCoordinates, releaseID drafts.ReleaseIdentifier) (drafts.DeletionResult, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	repository.deleteCalls = append(repository.deleteCalls, releaseID)
	repository.deleteTargets = append(repository.deleteTargets, coordinates)
	statusCode := http.StatusNoContent
	if configuredStatus, exists := repository.statusByID[releaseID]; exists {
		statusCode = configuredStatus
	}
	return drafts.DeletionResult{ReleaseID: releaseID, StatusCode: statusCode}, nil
}

func fixedClock() time.Time {
	return serviceReferenceTime
}

func newTestService(testInstance *testing.T, repository drafts.ReleaseRepository) *drafts.Service {
	testInstance.Helper()

	service, serviceError := drafts.NewService(zap.NewNop(), repository, fixedClock)
	require.NoError(testInstance, serviceError)
	return service
}

func fourReleases(draftAge time.Duration, newestDraftAge time.Duration) []drafts.Release {
	return []drafts.Release{
		{ID: 1, Draft: true, CreatedAt: serviceReferenceTime.Add(-draftAge)},
		{ID: 2, Draft: true, CreatedAt: serviceReferenceTime.Add(-draftAge)},
		{ID: 3, Draft: false, CreatedAt: serviceReferenceTime.Add(-draftAge)},
		{ID: 4, Draft: true, CreatedAt: serviceReferenceTime.Add(-newestDraftAge)},
	}
}

func TestNewServiceRequiresRepository(testInstance *testing.T) {
	service, serviceError := drafts.NewService(zap.NewNop(), nil, nil)
	require.ErrorIs(testInstance, serviceError, drafts.ErrRepositoryNotConfigured)
	require.Nil(testInstance, service)
}

func TestServiceDeletesEveryDraftWithoutThreshold(testInstance *testing.T) {
	repository := &stubReleaseRepository{releases: []drafts.Release{
		{ID: 1, Draft: true},
		{ID: 2, Draft: true},
		{ID: 3, Draft: false},
		{ID: 4, Draft: true},
	}}
	service := newTestService(testInstance, repository)

	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository})

	require.Equal(testInstance, drafts.OutcomeStatusCompleted, outcome.Status)
	require.NoError(testInstance, outcome.Err())
	require.Equal(testInstance, []drafts.ReleaseIdentifier{1, 2, 4}, outcome.Selected)
	require.ElementsMatch(testInstance, []drafts.ReleaseIdentifier{1, 2, 4}, repository.deleteCalls)
	require.Equal(testInstance, 3, outcome.DeletedCount())
	for _, target := range repository.deleteTargets {
		require.Equal(testInstance, serviceTestRepository, target)
	}
}

func TestServiceDeletesInSelectionOrderWhenSequential(testInstance *testing.T) {
	repository := &stubReleaseRepository{releases: fourReleases(time.Minute, 0)}
	service := newTestService(testInstance, repository)

	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository, MaxConcurrency: 1})

	require.False(testInstance, outcome.Failed())
	require.Equal(testInstance, []drafts.ReleaseIdentifier{1, 2, 4}, repository.deleteCalls)
}

func TestServiceAppliesThreshold(testInstance *testing.T) {
	repository := &stubReleaseRepository{releases: fourReleases(5*time.Second, 0)}
	service := newTestService(testInstance, repository)

	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository, Threshold: "1s"})

	require.Equal(testInstance, drafts.OutcomeStatusCompleted, outcome.Status)
	require.Equal(testInstance, []drafts.ReleaseIdentifier{1, 2}, outcome.Selected)
	require.ElementsMatch(testInstance, []drafts.ReleaseIdentifier{1, 2}, repository.deleteCalls)
}

func TestServiceCompletesWhenNoDraftMeetsThreshold(testInstance *testing.T) {
	repository := &stubReleaseRepository{releases: fourReleases(0, 0)}
	service := newTestService(testInstance, repository)

	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository, Threshold: "1d"})

	require.Equal(testInstance, drafts.OutcomeStatusCompleted, outcome.Status)
	require.Empty(testInstance, outcome.Selected)
	require.Empty(testInstance, repository.deleteCalls)
	require.Zero(testInstance, outcome.DeletedCount())
}

func TestServiceReportsDeletionFailure(testInstance *testing.T) {
	repository := &stubReleaseRepository{
		releases:   fourReleases(time.Hour, time.Hour),
		statusByID: map[drafts.ReleaseIdentifier]int{4: http.StatusInternalServerError},
	}
	service := newTestService(testInstance, repository)

	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository})

	require.True(testInstance, outcome.Failed())
	require.Equal(testInstance, "Error deleting releases", outcome.Message)
	require.ElementsMatch(testInstance, []drafts.ReleaseIdentifier{1, 2, 4}, repository.deleteCalls)
	require.ErrorIs(testInstance, outcome.Err(), drafts.ErrDeletingReleases)
	require.Equal(testInstance, 2, outcome.DeletedCount())
}

func TestServiceDryRunSkipsDeletion(testInstance *testing.T) {
	repository := &stubReleaseRepository{releases: fourReleases(time.Hour, time.Hour)}
	service := newTestService(testInstance, repository)

	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository, DryRun: true})

	require.Equal(testInstance, drafts.OutcomeStatusCompleted, outcome.Status)
	require.True(testInstance, outcome.DryRun)
	require.Equal(testInstance, []drafts.ReleaseIdentifier{1, 2, 4}, outcome.Selected)
	require.Empty(testInstance, repository.deleteCalls)
}

func TestServiceShortCircuitsOnListingFailure(testInstance *testing.T) {
	controller := gomock.NewController(testInstance)
	defer controller.Finish()

	listingError := errors.New("list releases: 502 Bad Gateway")
	repository := mocks.NewMockReleaseRepository(controller)
	repository.EXPECT().
		ListReleases(gomock.Any(), serviceTestRepository).
		Return(nil, listingError)
	repository.EXPECT().DeleteRelease(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	service := newTestService(testInstance, repository)
	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository})

	require.True(testInstance, outcome.Failed())
	require.Equal(testInstance, "Error listing releases", outcome.Message)
	require.ErrorIs(testInstance, outcome.Err(), drafts.ErrListingReleases)
	require.ErrorIs(testInstance, outcome.Err(), listingError)
	require.Empty(testInstance, outcome.Selected)
}

func TestServiceFailsFastOnInvalidThreshold(testInstance *testing.T) {
	controller := gomock.NewController(testInstance)
	defer controller.Finish()

	repository := mocks.NewMockReleaseRepository(controller)
	repository.EXPECT().ListReleases(gomock.Any(), gomock.Any()).Times(0)
	repository.EXPECT().DeleteRelease(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	service := newTestService(testInstance, repository)
	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository, Threshold: "-1invalidthreshold"})

	require.True(testInstance, outcome.Failed())
	require.Equal(testInstance, drafts.ThresholdFailureMessage, outcome.Message)
	require.ErrorIs(testInstance, outcome.Err(), drafts.ErrParsingThreshold)
}

func TestServiceForwardsDeletionsThroughRepository(testInstance *testing.T) {
	controller := gomock.NewController(testInstance)
	defer controller.Finish()

	repository := mocks.NewMockReleaseRepository(controller)
	repository.EXPECT().
		ListReleases(gomock.Any(), serviceTestRepository).
		Return([]drafts.Release{{ID: 21, Draft: true}, {ID: 22, Draft: false}}, nil)
	repository.EXPECT().
		DeleteRelease(gomock.Any(), serviceTestRepository, drafts.ReleaseIdentifier(21)).
		Return(drafts.DeletionResult{ReleaseID: 21, StatusCode: http.StatusNoContent}, nil)

	service := newTestService(testInstance, repository)
	outcome := service.Execute(context.Background(), drafts.Options{Repository: serviceTestRepository})

	require.False(testInstance, outcome.Failed())
	require.Equal(testInstance, 1, outcome.DeletedCount())
}
