package fixture

import (
	"github.com/bekermanmatias/Torneito-sub000/models"
)

// ResolveChampion derives the champion of a finished tournament from its
// match history. It returns nil while the tournament is not finished, and
// nil for a finished elimination tournament whose final was an unresolved
// draw (a stalled bracket never reaches finished in the first place).
func ResolveChampion(t *models.Tournament, teams []models.Team, matches []*models.Match) *models.Team {
	if t == nil || t.Status != models.StatusFinished {
		return nil
	}

	switch t.Format {
	case models.FormatLeague:
		rows := ComputeStandings(teams, matches)
		if len(rows) == 0 {
			return nil
		}
		return teamByID(teams, rows[0].TeamID)

	case models.FormatElimination:
		final := finalMatch(matches)
		if final == nil {
			return nil
		}
		teamID, ok := Winner(final)
		if !ok {
			return nil
		}
		return teamByID(teams, teamID)
	}

	return nil
}

// finalMatch returns the sole played match of the highest round, or nil if
// that round holds more than one match (the bracket never completed).
func finalMatch(matches []*models.Match) *models.Match {
	maxRound := 0
	for _, m := range matches {
		if m.Round != nil && m.Played() && *m.Round > maxRound {
			maxRound = *m.Round
		}
	}
	if maxRound == 0 {
		return nil
	}

	var final *models.Match
	for _, m := range matches {
		if m.Round == nil || *m.Round != maxRound || !m.Played() {
			continue
		}
		if final != nil {
			return nil
		}
		final = m
	}
	return final
}

func teamByID(teams []models.Team, id int) *models.Team {
	for i := range teams {
		if teams[i].ID == id {
			return &teams[i]
		}
	}
	return nil
}
