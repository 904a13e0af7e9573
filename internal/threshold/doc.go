// Package threshold parses the minimum draft age configured for a sweep.
//
// A Threshold is optional: the zero value means no age filtering. Parse accepts
// the duration grammar of the standard library extended with day and week
// units ("1d", "2w", "1d12h") and treats bare numbers as seconds.
package threshold
