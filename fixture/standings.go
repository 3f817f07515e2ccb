package fixture

import (
	"sort"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// TableRow is one team's line in a league table. It is derived from the
// match list on every read and never stored.
type TableRow struct {
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

// ComputeStandings builds the ranked league table from the full match list.
// Only played matches count. Ranking is by points, then goal difference,
// then goals scored, all descending. Teams tied on all three keep their
// input order; no further tie-break is applied (known limitation).
func ComputeStandings(teams []models.Team, matches []*models.Match) []TableRow {
	rows := make([]TableRow, len(teams))
	index := make(map[int]int, len(teams))
	for i, team := range teams {
		rows[i] = TableRow{TeamID: team.ID, TeamName: team.Name}
		index[team.ID] = i
	}

	for _, m := range matches {
		if !m.Played() || m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}
		hi, ok := index[m.HomeTeamID]
		if !ok {
			continue
		}
		ai, ok := index[m.AwayTeamID]
		if !ok {
			continue
		}

		hg, ag := *m.HomeGoals, *m.AwayGoals

		home, away := &rows[hi], &rows[ai]
		home.Played++
		away.Played++
		home.GoalsFor += hg
		home.GoalsAgainst += ag
		home.GoalDifference += hg - ag
		away.GoalsFor += ag
		away.GoalsAgainst += hg
		away.GoalDifference += ag - hg

		switch {
		case hg > ag:
			home.Won++
			home.Points += pointsForWin
			away.Lost++
		case ag > hg:
			away.Won++
			away.Points += pointsForWin
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points += pointsForDraw
			away.Points += pointsForDraw
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		return rows[i].GoalsFor > rows[j].GoalsFor
	})

	return rows
}
