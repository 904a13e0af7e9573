// Package githubauth discovers GitHub credentials from the environment.
package githubauth
