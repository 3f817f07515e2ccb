package models

import "time"

type MatchState string

const (
	MatchScheduled MatchState = "scheduled"
	MatchPlayed    MatchState = "played"
)

type Match struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	HomeTeamID   int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int        `json:"away_team_id" db:"away_team_id"`
	HomeGoals    *int       `json:"home_goals" db:"home_goals"`
	AwayGoals    *int       `json:"away_goals" db:"away_goals"`
	Date         time.Time  `json:"date" db:"date"`
	State        MatchState `json:"state" db:"state"`

	// Round is set only for elimination matches, starting at 1.
	Round *int `json:"round,omitempty" db:"round"`

	// Penalty shootout fields are meaningful only when Penalties is true,
	// which in turn is allowed only on a regulation draw.
	Penalties        bool `json:"penalties" db:"penalties"`
	PenaltyHomeGoals *int `json:"penalty_home_goals,omitempty" db:"penalty_home_goals"`
	PenaltyAwayGoals *int `json:"penalty_away_goals,omitempty" db:"penalty_away_goals"`
}

func (m *Match) Played() bool {
	return m.State == MatchPlayed
}
