package fixture

import (
	"fmt"
	"time"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

// Winner returns the team advancing from an elimination match: the higher
// regulation score, or the higher penalty score on a regulation draw. A
// drawn match with no penalties (or a drawn shootout) has no winner and ok
// is false. Unplayed matches have no winner.
func Winner(m *models.Match) (teamID int, ok bool) {
	if m == nil || !m.Played() || m.HomeGoals == nil || m.AwayGoals == nil {
		return 0, false
	}
	switch {
	case *m.HomeGoals > *m.AwayGoals:
		return m.HomeTeamID, true
	case *m.AwayGoals > *m.HomeGoals:
		return m.AwayTeamID, true
	}
	if m.Penalties && m.PenaltyHomeGoals != nil && m.PenaltyAwayGoals != nil {
		switch {
		case *m.PenaltyHomeGoals > *m.PenaltyAwayGoals:
			return m.HomeTeamID, true
		case *m.PenaltyAwayGoals > *m.PenaltyHomeGoals:
			return m.AwayTeamID, true
		}
	}
	return 0, false
}

// RoundOutcome is the result of checking a completed elimination round:
// either the matches of the next round (still unsaved), or the fact that the
// tournament is decided.
type RoundOutcome struct {
	NextRound      []*models.Match
	Finished       bool
	ChampionTeamID int

	// DroppedTeamID is set when an odd winner count left the last winner
	// unpaired. The team silently leaves the bracket; callers should log it.
	DroppedTeamID *int
}

// AdvanceRound inspects round `round` of an elimination tournament and
// decides what happens next. matches must be the tournament's full match
// list in storage order (round, then creation order), so winners are paired
// in the original bracket order.
//
// It returns (nil, nil) when there is nothing to do: the round still has
// unplayed matches, the next round already exists (idempotency guard for
// retried calls), or every match of the round was an unresolved draw and the
// bracket stalls. It never mutates its inputs; the caller persists the
// returned matches and status change as one unit.
func AdvanceRound(tournamentID int, matches []*models.Match, round int) (*RoundOutcome, error) {
	if round < 1 {
		return nil, fmt.Errorf("invalid elimination round %d", round)
	}

	var current []*models.Match
	var latest time.Time
	for _, m := range matches {
		if m.Round == nil {
			continue
		}
		switch *m.Round {
		case round:
			current = append(current, m)
			if m.Date.After(latest) {
				latest = m.Date
			}
		case round + 1:
			// Progression already ran for this round.
			return nil, nil
		}
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("elimination round %d has no matches in tournament %d", round, tournamentID)
	}

	winners := make([]int, 0, len(current))
	for _, m := range current {
		if !m.Played() {
			return nil, nil
		}
		if teamID, ok := Winner(m); ok {
			winners = append(winners, teamID)
		}
	}

	switch len(winners) {
	case 0:
		// Every match was an unresolved draw. No next round, no champion.
		return nil, nil
	case 1:
		return &RoundOutcome{Finished: true, ChampionTeamID: winners[0]}, nil
	}

	outcome := &RoundOutcome{}
	if len(winners)%2 != 0 {
		dropped := winners[len(winners)-1]
		outcome.DroppedTeamID = &dropped
		winners = winners[:len(winners)-1]
	}

	nextRound := round + 1
	date := latest
	for i := 0; i < len(winners); i += 2 {
		date = date.Add(eliminationMatchInterval)
		r := nextRound
		outcome.NextRound = append(outcome.NextRound, &models.Match{
			TournamentID: tournamentID,
			HomeTeamID:   winners[i],
			AwayTeamID:   winners[i+1],
			Date:         date,
			State:        models.MatchScheduled,
			Round:        &r,
		})
	}

	return outcome, nil
}
