// Package drafts selects stale draft releases and deletes them.
//
// SelectDrafts filters a fetched release list against an optional age
// threshold, DeleteAll fans the deletions out concurrently and waits for every
// one of them, and Service runs the whole list, select, delete pipeline against
// a ReleaseRepository, folding every failure into a single RunOutcome.
package drafts
