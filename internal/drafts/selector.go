package drafts

import (
	"time"

	"github.com/temirov/draftsweep/internal/threshold"
)

// SelectDrafts returns the identifiers of draft releases older than the threshold, in input order.
// Without a threshold every draft is selected. With one, a draft qualifies only when its creation
// time is known and strictly before now minus the threshold.
func SelectDrafts(releases []Release, limit threshold.Threshold, now time.Time) []ReleaseIdentifier {
	selected := make([]ReleaseIdentifier, 0, len(releases))
	cutoff := limit.Cutoff(now)

	for _, release := range releases {
		if !release.Draft {
			continue
		}
		if limit.Present() {
			if release.CreatedAt.IsZero() || !release.CreatedAt.Before(cutoff) {
				continue
			}
		}
		selected = append(selected, release.ID)
	}

	return selected
}
