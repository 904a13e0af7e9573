package purge

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/draftsweep/internal/drafts"
	"github.com/temirov/draftsweep/internal/githubapi"
)

// ServiceRequest carries what the resolver needs to build a run service.
type ServiceRequest struct {
	TokenSource       TokenSourceConfiguration
	ServiceBaseURL    string
	PageSize          int
	RequestTimeout    time.Duration
	ListRetryAttempts int
}

// RunServiceResolver creates run executors for the command.
type RunServiceResolver interface {
	Resolve(resolutionContext context.Context, logger *zap.Logger, request ServiceRequest) (drafts.RunExecutor, error)
}

// DefaultRunServiceResolver builds run services backed by the GitHub REST API.
type DefaultRunServiceResolver struct {
	HTTPClient        *http.Client
	EnvironmentLookup EnvironmentLookup
	FileReader        FileReader
	TokenResolver     TokenResolver
	Clock             drafts.Clock
}

// Resolve authenticates against GitHub and returns a run service for the request.
func (resolver *DefaultRunServiceResolver) Resolve(resolutionContext context.Context, logger *zap.Logger, request ServiceRequest) (drafts.RunExecutor, error) {
	resolvedTokenResolver := resolver.TokenResolver
	if resolvedTokenResolver == nil {
		resolvedTokenResolver = NewTokenResolver(resolver.EnvironmentLookup, resolver.FileReader)
	}

	token, tokenError := resolveTokenWithFallback(resolutionContext, resolvedTokenResolver, request.TokenSource, resolver.EnvironmentLookup)
	if tokenError != nil {
		return nil, tokenError
	}

	releaseRepository, repositoryError := githubapi.NewReleaseRepository(logger, token, githubapi.ServiceConfiguration{
		BaseURL:           request.ServiceBaseURL,
		PageSize:          request.PageSize,
		RequestTimeout:    request.RequestTimeout,
		ListRetryAttempts: request.ListRetryAttempts,
		HTTPClient:        resolver.HTTPClient,
	})
	if repositoryError != nil {
		return nil, repositoryError
	}

	runService, serviceError := drafts.NewService(logger, releaseRepository, resolver.Clock)
	if serviceError != nil {
		return nil, serviceError
	}

	return runService, nil
}
