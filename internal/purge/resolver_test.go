package purge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/draftsweep/internal/drafts"
	"github.com/temirov/draftsweep/internal/purge"
)

const (
	resolverTestReleasesBody = `[` +
		`{"id":1,"tag_name":"v1","draft":true,"created_at":"2024-01-01T00:00:00Z"},` +
		`{"id":2,"tag_name":"v2","draft":true,"created_at":"2024-05-30T00:00:00Z"},` +
		`{"id":3,"tag_name":"v3","draft":false,"created_at":"2023-01-01T00:00:00Z"}` +
		`]`
)

func TestDefaultRunServiceResolverSweepsGitHub(testInstance *testing.T) {
	var deletedPathsGuard sync.Mutex
	var deletedPaths []string

	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		assert.Equal(testInstance, "Bearer fallback-token", request.Header.Get("Authorization"))
		switch request.Method {
		case http.MethodGet:
			responseWriter.Header().Set("Content-Type", "application/json")
			_, _ = responseWriter.Write([]byte(resolverTestReleasesBody))
		case http.MethodDelete:
			deletedPathsGuard.Lock()
			deletedPaths = append(deletedPaths, request.URL.Path)
			deletedPathsGuard.Unlock()
			responseWriter.WriteHeader(http.StatusNoContent)
		default:
			responseWriter.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	environment := map[string]string{"GH_TOKEN": "fallback-token"}
	resolver := &purge.DefaultRunServiceResolver{
		HTTPClient: server.Client(),
		EnvironmentLookup: func(key string) (string, bool) {
			value, exists := environment[key]
			return value, exists
		},
		Clock: func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) },
	}

	runService, resolveError := resolver.Resolve(context.Background(), zap.NewNop(), purge.ServiceRequest{
		TokenSource:    purge.TokenSourceConfiguration{Type: purge.TokenSourceTypeEnvironment, Reference: "GITHUB_TOKEN"},
		ServiceBaseURL: server.URL,
		RequestTimeout: time.Second,
	})
	require.NoError(testInstance, resolveError)

	outcome := runService.Execute(context.Background(), drafts.Options{
		Repository: drafts.RepositoryCoordinates{Owner: "octo", Name: "widgets"},
		Threshold:  "30d",
	})

	require.False(testInstance, outcome.Failed())
	require.Equal(testInstance, []drafts.ReleaseIdentifier{1}, outcome.Selected)
	require.Equal(testInstance, 1, outcome.DeletedCount())
	require.Equal(testInstance, []string{"/repos/octo/widgets/releases/1"}, deletedPaths)
}

func TestDefaultRunServiceResolverRequiresToken(testInstance *testing.T) {
	resolver := &purge.DefaultRunServiceResolver{
		EnvironmentLookup: func(string) (string, bool) { return "", false },
	}

	runService, resolveError := resolver.Resolve(context.Background(), zap.NewNop(), purge.ServiceRequest{
		TokenSource: purge.TokenSourceConfiguration{Type: purge.TokenSourceTypeEnvironment, Reference: "GITHUB_TOKEN"},
	})
	require.ErrorIs(testInstance, resolveError, purge.ErrTokenNotFound)
	require.Nil(testInstance, runService)
}
