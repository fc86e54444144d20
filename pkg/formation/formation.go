// Package formation partitions a session's participants into teams.
//
// Participants are shuffled with a caller supplied random source, then dealt
// round-robin onto ceil(N/k) teams so team sizes differ by at most one. Roles
// cycle through the role catalog by global position, not by position within
// a team, so a team may end up with a repeated or missing role.
package formation

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gridcrew/mapathon/pkg/proto"
)

// ordinalNames are the team names handed out by index.
var ordinalNames = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta",
	"Eta", "Theta", "Iota", "Kappa", "Lambda", "Mu",
	"Nu", "Xi", "Omicron", "Pi", "Rho", "Sigma",
	"Tau", "Upsilon", "Phi", "Chi", "Psi", "Omega",
}

// Member is a participant placed on a team.
type Member struct {
	ParticipantID string
	// Position is the participant's index in the shuffled order.
	Position int
	Role     proto.Role
}

// Team is a planned team.
type Team struct {
	Index   int
	Name    string
	Members []Member
}

// Plan is the outcome of a formation.
type Plan struct {
	Teams []Team
}

// NewRand returns a random source seeded with seed. A zero seed picks a fresh
// seed from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec
}

// TeamName returns the display name of the team at index i.
func TeamName(i int) string {
	if i >= 0 && i < len(ordinalNames) {
		return ordinalNames[i]
	}
	return fmt.Sprintf("Team %d", i+1)
}

// TeamCount returns ceil(n/size).
func TeamCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ValidateTeamSize checks the requested team size.
func ValidateTeamSize(size int) error {
	if size < 1 {
		return &proto.ValidationError{Field: "team_size", Value: size, Reason: "must be at least 1"}
	}
	return nil
}

// New plans the teams for participants. The participant order given does not
// matter: ids are sorted before shuffling so the same seed and set always
// yield the same plan.
func New(session string, participants []string, size int, rng *rand.Rand) (Plan, error) {
	if err := ValidateTeamSize(size); err != nil {
		return Plan{}, err
	}
	if len(participants) < 1 {
		return Plan{}, &proto.PreconditionError{
			Session: session,
			Cause:   proto.ErrTooFewParticipants,
			Missing: 1,
			Hint:    "register at least one participant",
		}
	}
	if rng == nil {
		rng = NewRand(0)
	}

	ids := make([]string, len(participants))
	copy(ids, participants)
	sort.Strings(ids)
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	count := TeamCount(len(ids), size)
	teams := make([]Team, count)
	for i := range teams {
		teams[i] = Team{
			Index:   i,
			Name:    TeamName(i),
			Members: make([]Member, 0, size),
		}
	}

	for i, id := range ids {
		t := &teams[i%count]
		t.Members = append(t.Members, Member{
			ParticipantID: id,
			Position:      i,
			Role:          proto.RoleAt(i),
		})
	}

	return Plan{Teams: teams}, nil
}

// Sizes returns the member count of each team in index order.
func (p Plan) Sizes() []int {
	sizes := make([]int, len(p.Teams))
	for i, t := range p.Teams {
		sizes[i] = len(t.Members)
	}
	return sizes
}
