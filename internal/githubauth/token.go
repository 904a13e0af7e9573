package githubauth

import (
	"os"
	"strings"
)

// Environment variables consulted for GitHub credentials, in preference order.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup reports the value of an environment variable and whether it is set.
type EnvironmentLookup func(name string) (string, bool)

// TokenVariables lists the consulted variable names in preference order.
func TokenVariables() []string {
	return append([]string(nil), tokenPreference...)
}

// ResolveToken returns the first non-blank token among the well-known variables along with
// the variable it came from. A nil lookup reads the process environment.
func ResolveToken(lookup EnvironmentLookup) (token string, variableName string, found bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, candidateName := range tokenPreference {
		candidateValue, exists := lookup(candidateName)
		if !exists {
			continue
		}
		trimmedValue := strings.TrimSpace(candidateValue)
		if len(trimmedValue) == 0 {
			continue
		}
		return trimmedValue, candidateName, true
	}
	return "", "", false
}
