package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

const eliminationMatchInterval = 2 * 24 * time.Hour

type eliminationGenerator struct {
	rnd *rand.Rand
}

// NewEliminationGenerator returns a generator that seeds round one by
// shuffling the team list. A nil rnd seeds from the clock; tests inject a
// fixed seed to assert the exact bracket shape.
func NewEliminationGenerator(rnd *rand.Rand) Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &eliminationGenerator{rnd: rnd}
}

func (g *eliminationGenerator) Format() models.TournamentFormat {
	return models.FormatElimination
}

// Generate shuffles the teams and pairs them consecutively into the n/2
// matches of round one. Later rounds are materialized incrementally by
// AdvanceRound as results come in.
func (g *eliminationGenerator) Generate(params GenerateParams) ([]*models.Match, error) {
	n := len(params.TeamIDs)
	if n < 2 {
		return nil, fmt.Errorf("elimination fixture requires at least 2 teams, got %d", n)
	}
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("elimination fixture requires a power-of-two team count, got %d", n)
	}

	shuffled := make([]int, n)
	copy(shuffled, params.TeamIDs)
	g.rnd.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	round := 1
	matches := make([]*models.Match, 0, n/2)
	date := params.Start

	for i := 0; i < n; i += 2 {
		matches = append(matches, &models.Match{
			TournamentID: params.TournamentID,
			HomeTeamID:   shuffled[i],
			AwayTeamID:   shuffled[i+1],
			Date:         date,
			State:        models.MatchScheduled,
			Round:        &round,
		})
		date = date.Add(eliminationMatchInterval)
	}

	return matches, nil
}
