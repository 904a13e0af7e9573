package purge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/draftsweep/internal/actions"
	"github.com/temirov/draftsweep/internal/drafts"
)

const (
	purgeCommandUseConstant                 = "purge"
	purgeCommandShortDescriptionConstant    = "Delete stale draft releases"
	purgeCommandLongDescriptionConstant     = "purge deletes the draft releases of a GitHub repository. With a threshold such as 30d, 12h or 90 (seconds) only drafts older than that age are deleted."
	unexpectedArgumentsErrorMessageConstant = "purge does not accept positional arguments"
	repositoryMissingErrorMessageConstant   = "repository must be provided via --repository, purge.repository, the repository input or GITHUB_REPOSITORY"
	repositoryFlagNameConstant              = "repository"
	repositoryFlagDescriptionConstant       = "Repository to sweep as owner/name"
	thresholdFlagNameConstant               = "threshold"
	thresholdFlagDescriptionConstant        = "Only delete drafts older than this age (e.g. 30d, 12h, 1w, 90)"
	tokenSourceFlagNameConstant             = "token-source"
	tokenSourceFlagDescriptionConstant      = "Token source (env:NAME or file:/path)"
	dryRunFlagNameConstant                  = "dry-run"
	dryRunFlagDescriptionConstant           = "List the drafts that would be deleted without deleting them"
	maxConcurrencyFlagNameConstant          = "max-concurrency"
	maxConcurrencyFlagDescriptionConstant   = "Maximum deletions in flight (0 for unlimited)"
	repositoryParseErrorTemplateConstant    = "invalid repository: %w"
	tokenSourceParseErrorTemplateConstant   = "invalid token source: %w"
	optionsResolvedLogMessageConstant       = "purge options resolved"
	summaryWriteFailedLogMessageConstant    = "run summary not written"
	logFieldRepositoryConstant              = "repository"
	logFieldThresholdConstant               = "threshold"
	logFieldTokenSourceConstant             = "token_source"
	logFieldDryRunConstant                  = "dry_run"
	logFieldMaxConcurrencyConstant          = "max_concurrency"
)

// ErrRepositoryMissing indicates that no repository was supplied by any source.
var ErrRepositoryMissing = errors.New(repositoryMissingErrorMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current purge configuration.
type ConfigurationProvider func() Configuration

// ActionInputs exposes values supplied by a GitHub Actions workflow step.
type ActionInputs interface {
	Threshold() string
	Repository() string
}

// CommandBuilder assembles the purge command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceResolver       RunServiceResolver
	Inputs                ActionInputs
	Reporter              actions.OutcomeReporter
	HTTPClient            *http.Client
	EnvironmentLookup     EnvironmentLookup
	FileReader            FileReader
	TokenResolver         TokenResolver
}

type commandOptions struct {
	run     drafts.Options
	request ServiceRequest
}

// Build constructs the purge command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	purgeCommand := &cobra.Command{
		Use:   purgeCommandUseConstant,
		Short: purgeCommandShortDescriptionConstant,
		Long:  purgeCommandLongDescriptionConstant,
		RunE:  builder.runPurge,
	}

	purgeCommand.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	purgeCommand.Flags().String(thresholdFlagNameConstant, "", thresholdFlagDescriptionConstant)
	purgeCommand.Flags().String(tokenSourceFlagNameConstant, "", tokenSourceFlagDescriptionConstant)
	purgeCommand.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)
	purgeCommand.Flags().Int(maxConcurrencyFlagNameConstant, 0, maxConcurrencyFlagDescriptionConstant)

	return purgeCommand, nil
}

func (builder *CommandBuilder) runPurge(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	options, optionsError := builder.parseCommandOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	logger.Debug(
		optionsResolvedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, options.run.Repository.String()),
		zap.String(logFieldThresholdConstant, options.run.Threshold),
		zap.Stringer(logFieldTokenSourceConstant, options.request.TokenSource),
		zap.Bool(logFieldDryRunConstant, options.run.DryRun),
		zap.Int(logFieldMaxConcurrencyConstant, options.run.MaxConcurrency),
	)

	runService, serviceError := builder.resolveRunService(command.Context(), logger, options.request)
	if serviceError != nil {
		return serviceError
	}

	outcome := runService.Execute(command.Context(), options.run)

	summary := NewRunSummary(options.run.Repository, options.run.Threshold, outcome)
	summaryError := WriteRunSummary(command.OutOrStdout(), summary)
	if summaryError != nil {
		logger.Warn(summaryWriteFailedLogMessageConstant, zap.Error(summaryError))
	}

	builder.resolveReporter(command, logger).Report(outcome)

	if runError := outcome.Err(); runError != nil {
		return runError
	}
	return summaryError
}

func (builder *CommandBuilder) parseCommandOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()
	inputs := builder.resolveInputs()

	repositoryFlagValue, repositoryFlagError := command.Flags().GetString(repositoryFlagNameConstant)
	if repositoryFlagError != nil {
		return commandOptions{}, repositoryFlagError
	}
	repositoryValue := firstNonBlank(repositoryFlagValue, configuration.Purge.Repository, inputs.Repository())
	if len(repositoryValue) == 0 {
		return commandOptions{}, ErrRepositoryMissing
	}
	repository, repositoryParseError := drafts.ParseRepositoryCoordinates(repositoryValue)
	if repositoryParseError != nil {
		return commandOptions{}, fmt.Errorf(repositoryParseErrorTemplateConstant, repositoryParseError)
	}

	thresholdFlagValue, thresholdFlagError := command.Flags().GetString(thresholdFlagNameConstant)
	if thresholdFlagError != nil {
		return commandOptions{}, thresholdFlagError
	}
	thresholdValue := firstNonBlank(thresholdFlagValue, configuration.Purge.Threshold, inputs.Threshold())

	tokenSourceFlagValue, tokenSourceFlagError := command.Flags().GetString(tokenSourceFlagNameConstant)
	if tokenSourceFlagError != nil {
		return commandOptions{}, tokenSourceFlagError
	}
	tokenSource, tokenSourceParseError := ParseTokenSource(firstNonBlank(tokenSourceFlagValue, configuration.Purge.TokenSource))
	if tokenSourceParseError != nil {
		return commandOptions{}, fmt.Errorf(tokenSourceParseErrorTemplateConstant, tokenSourceParseError)
	}

	dryRunValue := configuration.Purge.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		flagDryRunValue, dryRunFlagError := command.Flags().GetBool(dryRunFlagNameConstant)
		if dryRunFlagError != nil {
			return commandOptions{}, dryRunFlagError
		}
		dryRunValue = flagDryRunValue
	}

	maxConcurrencyValue := configuration.Purge.MaxConcurrency
	if command.Flags().Changed(maxConcurrencyFlagNameConstant) {
		flagMaxConcurrencyValue, maxConcurrencyFlagError := command.Flags().GetInt(maxConcurrencyFlagNameConstant)
		if maxConcurrencyFlagError != nil {
			return commandOptions{}, maxConcurrencyFlagError
		}
		maxConcurrencyValue = flagMaxConcurrencyValue
	}

	return commandOptions{
		run: drafts.Options{
			Repository:     repository,
			Threshold:      thresholdValue,
			DryRun:         dryRunValue,
			MaxConcurrency: maxConcurrencyValue,
		},
		request: ServiceRequest{
			TokenSource:       tokenSource,
			ServiceBaseURL:    configuration.Purge.ServiceBaseURL,
			PageSize:          configuration.Purge.PageSize,
			RequestTimeout:    configuration.Purge.RequestTimeout,
			ListRetryAttempts: configuration.Purge.ListRetryAttempts,
		},
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveInputs() ActionInputs {
	if builder.Inputs != nil {
		return builder.Inputs
	}
	return actions.NewInputs(builder.environment())
}

func (builder *CommandBuilder) resolveReporter(command *cobra.Command, logger *zap.Logger) actions.OutcomeReporter {
	if builder.Reporter != nil {
		return builder.Reporter
	}
	return actions.NewReporter(logger, command.ErrOrStderr(), builder.environment())
}

func (builder *CommandBuilder) resolveRunService(resolutionContext context.Context, logger *zap.Logger, request ServiceRequest) (drafts.RunExecutor, error) {
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver.Resolve(resolutionContext, logger, request)
	}

	defaultResolver := &DefaultRunServiceResolver{
		HTTPClient:        builder.HTTPClient,
		EnvironmentLookup: builder.EnvironmentLookup,
		FileReader:        builder.FileReader,
		TokenResolver:     builder.TokenResolver,
	}

	return defaultResolver.Resolve(resolutionContext, logger, request)
}

func (builder *CommandBuilder) environment() actions.Environment {
	environmentLookup := builder.EnvironmentLookup
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return func(name string) string {
		value, _ := environmentLookup(name)
		return value
	}
}

func firstNonBlank(candidateValues ...string) string {
	for _, candidateValue := range candidateValues {
		if trimmedValue := strings.TrimSpace(candidateValue); len(trimmedValue) > 0 {
			return trimmedValue
		}
	}
	return ""
}
