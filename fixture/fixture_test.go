package fixture

import (
	"time"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

var testStart = time.Date(2025, time.March, 1, 18, 0, 0, 0, time.UTC)

func intp(n int) *int { return &n }

func playedMatch(tournamentID, home, away, homeGoals, awayGoals int, round *int) *models.Match {
	return &models.Match{
		TournamentID: tournamentID,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeGoals:    intp(homeGoals),
		AwayGoals:    intp(awayGoals),
		Date:         testStart,
		State:        models.MatchPlayed,
		Round:        round,
	}
}

func testTeams(ids ...int) []models.Team {
	teams := make([]models.Team, len(ids))
	for i, id := range ids {
		teams[i] = models.Team{ID: id, Name: string(rune('A' + i))}
	}
	return teams
}
