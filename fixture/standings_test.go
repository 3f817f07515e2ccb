package fixture

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

func TestComputeStandingsPointsAndRanking(t *testing.T) {
	teams := testTeams(1, 2, 3)
	matches := []*models.Match{
		playedMatch(1, 1, 2, 3, 1, nil), // A beats B 3-1
		playedMatch(1, 1, 3, 0, 0, nil), // A draws C 0-0
		playedMatch(1, 2, 3, 2, 2, nil), // B draws C 2-2
	}

	rows := ComputeStandings(teams, matches)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// A: 4 pts, GD +2. C: 2 pts, GD 0. B: 1 pt, GD -2.
	if rows[0].TeamID != 1 || rows[0].Points != 4 || rows[0].GoalDifference != 2 {
		t.Fatalf("unexpected leader row: %+v", rows[0])
	}
	if rows[1].TeamID != 3 || rows[1].Points != 2 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[2].TeamID != 2 || rows[2].Points != 1 || rows[2].Lost != 1 || rows[2].Drawn != 1 {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}

	if rows[0].Played != 2 || rows[0].Won != 1 || rows[0].Drawn != 1 || rows[0].Lost != 0 {
		t.Errorf("leader W/D/L wrong: %+v", rows[0])
	}
	if rows[0].GoalsFor != 3 || rows[0].GoalsAgainst != 1 {
		t.Errorf("leader goals wrong: %+v", rows[0])
	}
}

func TestComputeStandingsIgnoresScheduledMatches(t *testing.T) {
	teams := testTeams(1, 2)
	scheduled := &models.Match{TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2, State: models.MatchScheduled}

	rows := ComputeStandings(teams, []*models.Match{scheduled})
	for _, row := range rows {
		if row.Played != 0 || row.Points != 0 {
			t.Fatalf("scheduled match leaked into standings: %+v", row)
		}
	}
}

func TestComputeStandingsGoalsForTieBreak(t *testing.T) {
	teams := testTeams(1, 2, 3, 4)
	// Teams 1 and 2 both end on 3 points, GD 0, but team 1 scored more.
	matches := []*models.Match{
		playedMatch(1, 1, 3, 3, 2, nil),
		playedMatch(1, 3, 1, 2, 1, nil),
		playedMatch(1, 2, 4, 1, 0, nil),
		playedMatch(1, 4, 2, 1, 0, nil),
	}

	rows := ComputeStandings(teams, matches)
	if rows[0].TeamID != 1 {
		t.Fatalf("expected team 1 first on goals scored, got %+v", rows[0])
	}
	if rows[1].TeamID != 2 {
		t.Fatalf("expected team 2 second, got %+v", rows[1])
	}
}

func TestComputeStandingsOrderInvariantUnderPermutation(t *testing.T) {
	teams := testTeams(1, 2, 3, 4)
	matches := []*models.Match{
		playedMatch(1, 1, 2, 2, 0, nil),
		playedMatch(1, 1, 3, 1, 1, nil),
		playedMatch(1, 1, 4, 0, 3, nil),
		playedMatch(1, 2, 3, 2, 2, nil),
		playedMatch(1, 2, 4, 1, 0, nil),
		playedMatch(1, 3, 4, 4, 1, nil),
	}

	want := ComputeStandings(teams, matches)

	rnd := rand.New(rand.NewSource(9))
	for i := 0; i < 20; i++ {
		shuffled := make([]*models.Match, len(matches))
		copy(shuffled, matches)
		rnd.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := ComputeStandings(teams, shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("standings changed under match permutation:\n got %+v\nwant %+v", got, want)
		}
	}
}

func TestComputeStandingsFullTieKeepsInputOrder(t *testing.T) {
	// Three teams all drawing 1-1: 2 points, GD 0, 2 goals each. The tie is
	// unresolved at every level and rows keep team order.
	teams := testTeams(1, 2, 3)
	matches := []*models.Match{
		playedMatch(1, 1, 2, 1, 1, nil),
		playedMatch(1, 1, 3, 1, 1, nil),
		playedMatch(1, 2, 3, 1, 1, nil),
	}

	rows := ComputeStandings(teams, matches)
	for i, row := range rows {
		if row.Points != 2 || row.GoalDifference != 0 || row.GoalsFor != 2 {
			t.Fatalf("row %d: expected 2 pts, 0 GD, 2 GF, got %+v", i, row)
		}
		if row.TeamID != teams[i].ID {
			t.Fatalf("fully tied rows reordered: position %d holds team %d", i, row.TeamID)
		}
	}
}
