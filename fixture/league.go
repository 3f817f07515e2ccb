package fixture

import (
	"fmt"
	"time"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

// Matches of a league are spaced three days apart. The dates carry no real
// calendar semantics, they only give the fixture a display order.
const leagueMatchInterval = 3 * 24 * time.Hour

type leagueGenerator struct{}

func NewLeagueGenerator() Generator {
	return &leagueGenerator{}
}

func (g *leagueGenerator) Format() models.TournamentFormat {
	return models.FormatLeague
}

// Generate builds one match for every unordered pair of teams, n*(n-1)/2 in
// total. The earlier team in list order plays at home.
func (g *leagueGenerator) Generate(params GenerateParams) ([]*models.Match, error) {
	teamIDs := params.TeamIDs
	n := len(teamIDs)
	if n < 2 {
		return nil, fmt.Errorf("league fixture requires at least 2 teams, got %d", n)
	}

	matches := make([]*models.Match, 0, n*(n-1)/2)
	date := params.Start

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matches = append(matches, &models.Match{
				TournamentID: params.TournamentID,
				HomeTeamID:   teamIDs[i],
				AwayTeamID:   teamIDs[j],
				Date:         date,
				State:        models.MatchScheduled,
			})
			date = date.Add(leagueMatchInterval)
		}
	}

	return matches, nil
}
