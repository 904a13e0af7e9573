package actions

import (
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// Environment variables and input names read from the Actions runner.
const (
	ActionsEnvironmentVariable    = "GITHUB_ACTIONS"
	RepositoryEnvironmentVariable = "GITHUB_REPOSITORY"
	ThresholdInputName            = "threshold"
	RepositoryInputName           = "repository"
	actionsEnabledValueConstant   = "true"
)

// Environment reads an environment variable, returning an empty string when it is unset.
type Environment func(name string) string

// Inputs exposes the step inputs of the running action.
type Inputs struct {
	action *githubactions.Action
	getenv Environment
}

// NewInputs constructs Inputs over the provided environment. A nil environment reads the process environment.
func NewInputs(getenv Environment) *Inputs {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Inputs{
		action: githubactions.New(githubactions.WithGetenv(githubactions.GetenvFunc(getenv))),
		getenv: getenv,
	}
}

// Threshold returns the threshold input, or an empty string when it was not supplied.
func (inputs *Inputs) Threshold() string {
	return strings.TrimSpace(inputs.action.GetInput(ThresholdInputName))
}

// Repository returns the repository input, falling back to the repository the workflow runs in.
func (inputs *Inputs) Repository() string {
	if repositoryInput := strings.TrimSpace(inputs.action.GetInput(RepositoryInputName)); len(repositoryInput) > 0 {
		return repositoryInput
	}

	actionContext, contextError := inputs.action.Context()
	if contextError == nil && actionContext != nil {
		if contextRepository := strings.TrimSpace(actionContext.Repository); len(contextRepository) > 0 {
			return contextRepository
		}
	}

	return strings.TrimSpace(inputs.getenv(RepositoryEnvironmentVariable))
}

// RunningInActions reports whether the environment belongs to a GitHub Actions runner.
func RunningInActions(getenv Environment) bool {
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.EqualFold(strings.TrimSpace(getenv(ActionsEnvironmentVariable)), actionsEnabledValueConstant)
}
