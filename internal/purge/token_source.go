package purge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/draftsweep/internal/githubauth"
	pathutils "github.com/temirov/draftsweep/internal/utils/path"
)

const (
	tokenSourceSeparatorConstant               = ":"
	environmentTokenSourceTypeValueConstant    = "env"
	fileTokenSourceTypeValueConstant           = "file"
	tokenSourceRenderTemplateConstant          = "%s:%s"
	tokenSourceMissingErrorMessageConstant     = "token source must be provided"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "token file path must be provided"
	environmentTokenMissingTemplateConstant    = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read token file %s: %w"
	fileTokenEmptyErrorTemplateConstant        = "token file %s is empty"
	unsupportedTokenSourceTemplateConstant     = "unsupported token source type %q"
	tokenNotFoundMessageConstant               = "github token not found"
)

// ErrTokenNotFound indicates that no configured or well-known source yielded a token.
var ErrTokenNotFound = errors.New(tokenNotFoundMessageConstant)

// TokenSourceType enumerates the supported token retrieval mechanisms.
type TokenSourceType string

// Token source types.
const (
	TokenSourceTypeEnvironment TokenSourceType = TokenSourceType(environmentTokenSourceTypeValueConstant)
	TokenSourceTypeFile        TokenSourceType = TokenSourceType(fileTokenSourceTypeValueConstant)
)

// TokenSourceConfiguration specifies where a credentials token is read from.
type TokenSourceConfiguration struct {
	Type      TokenSourceType
	Reference string
}

// String renders the source in its declaration form, e.g. env:GITHUB_TOKEN.
func (source TokenSourceConfiguration) String() string {
	return fmt.Sprintf(tokenSourceRenderTemplateConstant, source.Type, source.Reference)
}

// ParseTokenSource interprets env:NAME and file:/path declarations. A bare value names an environment variable.
func ParseTokenSource(sourceValue string) (TokenSourceConfiguration, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return TokenSourceConfiguration{}, errors.New(tokenSourceMissingErrorMessageConstant)
	}

	sourceTypeValue, reference, hasSeparator := strings.Cut(trimmedValue, tokenSourceSeparatorConstant)
	if !hasSeparator {
		return TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: trimmedValue}, nil
	}

	sourceType := TokenSourceType(strings.ToLower(strings.TrimSpace(sourceTypeValue)))
	reference = strings.TrimSpace(reference)

	switch sourceType {
	case TokenSourceTypeEnvironment:
		if len(reference) == 0 {
			return TokenSourceConfiguration{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
	case TokenSourceTypeFile:
		if len(reference) == 0 {
			return TokenSourceConfiguration{}, errors.New(filePathMissingErrorMessageConstant)
		}
	default:
		return TokenSourceConfiguration{}, fmt.Errorf(unsupportedTokenSourceTemplateConstant, sourceType)
	}

	return TokenSourceConfiguration{Type: sourceType, Reference: reference}, nil
}

// TokenResolver retrieves authentication tokens from configured sources.
type TokenResolver interface {
	ResolveToken(resolutionContext context.Context, source TokenSourceConfiguration) (string, error)
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// NewTokenResolver creates a resolver reading the given environment and files. Nil collaborators use the process
// environment and os.ReadFile. File references may start with ~.
func NewTokenResolver(environmentLookup EnvironmentLookup, fileReader FileReader) TokenResolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return &tokenResolver{
		environmentLookup: environmentLookup,
		fileReader:        fileReader,
		homeExpander:      pathutils.NewHomeExpander(nil),
	}
}

type tokenResolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
	homeExpander      *pathutils.HomeExpander
}

func (resolver *tokenResolver) ResolveToken(_ context.Context, source TokenSourceConfiguration) (string, error) {
	switch source.Type {
	case TokenSourceTypeEnvironment:
		value, found := resolver.environmentLookup(source.Reference)
		trimmedValue := strings.TrimSpace(value)
		if !found || len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentTokenMissingTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	case TokenSourceTypeFile:
		filePath := resolver.homeExpander.Expand(source.Reference)
		contents, readError := resolver.fileReader(filePath)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, filePath, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileTokenEmptyErrorTemplateConstant, filePath)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedTokenSourceTemplateConstant, source.Type)
	}
}

// resolveTokenWithFallback consults the configured source first and then the well-known GitHub variables.
func resolveTokenWithFallback(resolutionContext context.Context, resolver TokenResolver, source TokenSourceConfiguration, environmentLookup EnvironmentLookup) (string, error) {
	token, resolveError := resolver.ResolveToken(resolutionContext, source)
	if resolveError == nil {
		return token, nil
	}

	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fallbackToken, _, found := githubauth.ResolveToken(githubauth.EnvironmentLookup(environmentLookup)); found {
		return fallbackToken, nil
	}

	return "", errors.Join(ErrTokenNotFound, resolveError)
}
