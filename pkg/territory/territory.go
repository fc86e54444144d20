// Package territory holds the distribution plan for catalog regions and the
// assignment status state machine.
package territory

import (
	"github.com/gridcrew/mapathon/pkg/proto"
)

// Allocation pairs one region with one team.
type Allocation struct {
	TeamID   int64
	RegionID int64
}

// Distribute assigns regions to teams round-robin: the region at position i
// goes to teams[i mod len(teams)]. Both slices must already be in their
// canonical order (teams by index, regions by name).
func Distribute(session string, teams []int64, regions []int64) ([]Allocation, error) {
	if len(teams) == 0 {
		return nil, &proto.PreconditionError{
			Session: session,
			Cause:   proto.ErrNoTeams,
			Hint:    "form teams first",
		}
	}

	allocs := make([]Allocation, len(regions))
	for i, r := range regions {
		allocs[i] = Allocation{
			TeamID:   teams[i%len(teams)],
			RegionID: r,
		}
	}

	return allocs, nil
}

// Counts returns the number of regions allocated to each team.
func Counts(allocs []Allocation) map[int64]int {
	counts := make(map[int64]int)
	for _, a := range allocs {
		counts[a.TeamID]++
	}
	return counts
}
