package fixture

import (
	"testing"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

func TestResolveChampionLeague(t *testing.T) {
	teams := testTeams(1, 2, 3)
	matches := []*models.Match{
		playedMatch(1, 1, 2, 0, 2, nil),
		playedMatch(1, 1, 3, 1, 1, nil),
		playedMatch(1, 2, 3, 3, 0, nil),
	}

	tournament := &models.Tournament{ID: 1, Format: models.FormatLeague, Status: models.StatusInProgress}
	if got := ResolveChampion(tournament, teams, matches); got != nil {
		t.Fatalf("unfinished league must have no champion, got %+v", got)
	}

	tournament.Status = models.StatusFinished
	got := ResolveChampion(tournament, teams, matches)
	if got == nil || got.ID != 2 {
		t.Fatalf("expected team 2 as league champion, got %+v", got)
	}
}

func TestResolveChampionElimination(t *testing.T) {
	teams := testTeams(1, 2, 3, 4)
	final := playedMatch(1, 1, 3, 0, 0, intp(2))
	final.Penalties = true
	final.PenaltyHomeGoals = intp(2)
	final.PenaltyAwayGoals = intp(4)

	matches := []*models.Match{
		playedMatch(1, 1, 2, 2, 0, intp(1)),
		playedMatch(1, 3, 4, 1, 0, intp(1)),
		final,
	}

	tournament := &models.Tournament{ID: 1, Format: models.FormatElimination, Status: models.StatusFinished}
	got := ResolveChampion(tournament, teams, matches)
	if got == nil || got.ID != 3 {
		t.Fatalf("expected team 3 as champion, got %+v", got)
	}
}

func TestResolveChampionEliminationUnresolvedFinal(t *testing.T) {
	teams := testTeams(1, 2, 3, 4)
	matches := []*models.Match{
		playedMatch(1, 1, 2, 2, 0, intp(1)),
		playedMatch(1, 3, 4, 1, 0, intp(1)),
		playedMatch(1, 1, 3, 1, 1, intp(2)), // final drawn, no shootout
	}

	tournament := &models.Tournament{ID: 1, Format: models.FormatElimination, Status: models.StatusFinished}
	if got := ResolveChampion(tournament, teams, matches); got != nil {
		t.Fatalf("drawn final must yield no champion, got %+v", got)
	}
}

func TestResolveChampionEliminationIncompleteRound(t *testing.T) {
	// Two played semi-finals but no final: the highest played round holds
	// two matches, so no champion can be derived.
	teams := testTeams(1, 2, 3, 4)
	matches := []*models.Match{
		playedMatch(1, 1, 2, 2, 0, intp(1)),
		playedMatch(1, 3, 4, 1, 0, intp(1)),
	}

	tournament := &models.Tournament{ID: 1, Format: models.FormatElimination, Status: models.StatusFinished}
	if got := ResolveChampion(tournament, teams, matches); got != nil {
		t.Fatalf("incomplete bracket must yield no champion, got %+v", got)
	}
}
