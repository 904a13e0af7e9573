// Package githubapi provides the GitHub REST implementation of the release repository.
//
// ReleaseRepository pages through the releases endpoint with retries for
// transient failures and deletes releases by identifier, reporting the HTTP
// status of every deletion. BaseURL overrides support GitHub Enterprise and
// tests.
package githubapi
