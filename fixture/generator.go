package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

// GenerateParams carries everything a generator needs to build the initial
// schedule of a tournament. TeamIDs keeps the caller's order; the league
// generator pairs teams in that order, the elimination generator shuffles
// a copy before pairing.
type GenerateParams struct {
	TournamentID int
	TeamIDs      []int
	Start        time.Time
}

type Generator interface {
	Generate(params GenerateParams) ([]*models.Match, error)

	Format() models.TournamentFormat
}

// NewGenerator returns the generator for the given format. rnd is used only
// by the elimination generator to seed the bracket; pass a seeded source in
// tests for a deterministic bracket, or nil to seed from the clock.
func NewGenerator(format models.TournamentFormat, rnd *rand.Rand) (Generator, error) {
	switch format {
	case models.FormatLeague:
		return NewLeagueGenerator(), nil
	case models.FormatElimination:
		return NewEliminationGenerator(rnd), nil
	default:
		return nil, fmt.Errorf("unsupported tournament format %q", format)
	}
}

// ValidTeamCount reports whether n teams can start a tournament of the given
// format: at least two for a league, a power of two for elimination.
func ValidTeamCount(format models.TournamentFormat, n int) bool {
	switch format {
	case models.FormatLeague:
		return n >= 2
	case models.FormatElimination:
		return n >= 2 && isPowerOfTwo(n)
	default:
		return false
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
