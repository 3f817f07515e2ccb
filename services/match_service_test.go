package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bekermanmatias/Torneito-sub000/live"
	"github.com/bekermanmatias/Torneito-sub000/models"
)

const testOwnerID = 7

type recordingHub struct {
	mu     sync.Mutex
	events []live.Event
}

func (h *recordingHub) BroadcastToTournament(tournamentID int, event live.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) eventTypes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, 0, len(h.events))
	for _, e := range h.events {
		types = append(types, e.Type)
	}
	return types
}

type matchFixture struct {
	svc            MatchService
	matchRepo      *fakeMatchRepo
	tournamentRepo *fakeTournamentRepo
	hub            *recordingHub
	tournament     *models.Tournament
}

// newMatchFixture seeds a tournament with one scheduled match per given
// (home, away) pair. Elimination pairs all land in round 1.
func newMatchFixture(t *testing.T, format models.TournamentFormat, pairs [][2]int) *matchFixture {
	t.Helper()

	matchRepo := newFakeMatchRepo()
	tournamentRepo := newFakeTournamentRepo()
	hub := &recordingHub{}

	tournament := &models.Tournament{
		Name:    "Apertura",
		Format:  format,
		Status:  models.StatusPending,
		OwnerID: testOwnerID,
	}
	if err := tournamentRepo.Create(context.Background(), nil, tournament); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2025, time.March, 1, 18, 0, 0, 0, time.UTC)
	matches := make([]*models.Match, 0, len(pairs))
	for i, pair := range pairs {
		m := &models.Match{
			TournamentID: tournament.ID,
			HomeTeamID:   pair[0],
			AwayTeamID:   pair[1],
			Date:         start.AddDate(0, 0, i),
			State:        models.MatchScheduled,
		}
		if format == models.FormatElimination {
			m.Round = intp(1)
		}
		matches = append(matches, m)
	}
	if err := matchRepo.CreateBatch(context.Background(), nil, matches); err != nil {
		t.Fatal(err)
	}

	svc := NewMatchService(fakeTransactor{}, matchRepo, tournamentRepo, hub, testLogger())
	return &matchFixture{
		svc:            svc,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		tournament:     tournament,
	}
}

func (f *matchFixture) register(t *testing.T, matchID, home, away int) *models.Match {
	t.Helper()
	m, err := f.svc.RegisterResult(context.Background(), testOwnerID, matchID, ResultInput{
		HomeGoals: intp(home),
		AwayGoals: intp(away),
	})
	if err != nil {
		t.Fatalf("RegisterResult(%d): %v", matchID, err)
	}
	return m
}

func TestRegisterResultLeague(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}, {1, 3}, {2, 3}})

	m := f.register(t, 1, 2, 1)
	if m.State != models.MatchPlayed {
		t.Fatalf("state = %q, want played", m.State)
	}
	if *m.HomeGoals != 2 || *m.AwayGoals != 1 {
		t.Errorf("score = %d-%d, want 2-1", *m.HomeGoals, *m.AwayGoals)
	}

	// First result flips the tournament into play.
	stored, err := f.tournamentRepo.GetByID(context.Background(), f.tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.StatusInProgress {
		t.Errorf("tournament status = %q, want in_progress", stored.Status)
	}

	types := f.hub.eventTypes()
	if len(types) != 1 || types[0] != live.EventMatchResult {
		t.Errorf("broadcast events = %v, want single MATCH_RESULT", types)
	}
}

func TestRegisterResultValidation(t *testing.T) {
	tests := []struct {
		name  string
		input ResultInput
		want  error
	}{
		{"missing goals", ResultInput{HomeGoals: intp(1)}, ErrResultGoalsRequired},
		{"negative goals", ResultInput{HomeGoals: intp(-1), AwayGoals: intp(0)}, ErrResultGoalsNegative},
		{"penalties without draw", ResultInput{HomeGoals: intp(2), AwayGoals: intp(1), Penalties: true, PenaltyHomeGoals: intp(5), PenaltyAwayGoals: intp(4)}, ErrPenaltyRequiresDraw},
		{"penalties missing scores", ResultInput{HomeGoals: intp(1), AwayGoals: intp(1), Penalties: true}, ErrPenaltyGoalsRequired},
		{"negative penalty goals", ResultInput{HomeGoals: intp(0), AwayGoals: intp(0), Penalties: true, PenaltyHomeGoals: intp(-3), PenaltyAwayGoals: intp(2)}, ErrPenaltyGoalsNegative},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})
			_, err := f.svc.RegisterResult(context.Background(), testOwnerID, 1, tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}

			stored, _ := f.matchRepo.GetByID(context.Background(), nil, 1)
			if stored.Played() {
				t.Error("invalid result was persisted")
			}
		})
	}
}

func TestRegisterResultAlreadyPlayed(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})
	f.register(t, 1, 3, 0)

	_, err := f.svc.RegisterResult(context.Background(), testOwnerID, 1, ResultInput{
		HomeGoals: intp(0),
		AwayGoals: intp(5),
	})
	if !errors.Is(err, ErrMatchAlreadyPlayed) {
		t.Fatalf("err = %v, want ErrMatchAlreadyPlayed", err)
	}

	stored, _ := f.matchRepo.GetByID(context.Background(), nil, 1)
	if *stored.HomeGoals != 3 || *stored.AwayGoals != 0 {
		t.Errorf("stored score = %d-%d, first result must stand", *stored.HomeGoals, *stored.AwayGoals)
	}
}

func TestRegisterResultNotOwner(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})

	_, err := f.svc.RegisterResult(context.Background(), testOwnerID+1, 1, ResultInput{
		HomeGoals: intp(1),
		AwayGoals: intp(0),
	})
	if !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("err = %v, want ErrForbiddenOperation", err)
	}
}

func TestRegisterResultMatchNotFound(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})

	_, err := f.svc.RegisterResult(context.Background(), testOwnerID, 99, ResultInput{
		HomeGoals: intp(1),
		AwayGoals: intp(0),
	})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
}

// Full bracket run: semifinals produce round 2, the final produces a
// champion and finishes the tournament.
func TestRegisterResultEliminationProgression(t *testing.T) {
	ctx := context.Background()
	f := newMatchFixture(t, models.FormatElimination, [][2]int{{1, 2}, {3, 4}})

	f.register(t, 1, 2, 0)

	// First semifinal alone must not progress anything.
	matches, _ := f.matchRepo.ListByTournament(ctx, nil, f.tournament.ID)
	if len(matches) != 2 {
		t.Fatalf("matches after first semifinal = %d, want 2", len(matches))
	}

	// Second semifinal goes to penalties; team 4 advances.
	_, err := f.svc.RegisterResult(ctx, testOwnerID, 2, ResultInput{
		HomeGoals: intp(1), AwayGoals: intp(1),
		Penalties:        true,
		PenaltyHomeGoals: intp(3), PenaltyAwayGoals: intp(4),
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, _ = f.matchRepo.ListByTournament(ctx, nil, f.tournament.ID)
	if len(matches) != 3 {
		t.Fatalf("matches after round 1 = %d, want 3", len(matches))
	}
	final := matches[2]
	if final.Round == nil || *final.Round != 2 {
		t.Fatalf("final round = %v, want 2", final.Round)
	}
	if final.HomeTeamID != 1 || final.AwayTeamID != 4 {
		t.Errorf("final pairing = %d vs %d, want 1 vs 4", final.HomeTeamID, final.AwayTeamID)
	}

	f.register(t, final.ID, 1, 0)

	stored, _ := f.tournamentRepo.GetByID(ctx, f.tournament.ID)
	if stored.Status != models.StatusFinished {
		t.Errorf("tournament status = %q, want finished", stored.Status)
	}

	types := f.hub.eventTypes()
	wantTypes := []string{
		live.EventMatchResult,
		live.EventMatchResult, live.EventRoundGenerated,
		live.EventMatchResult, live.EventTournamentFinished,
	}
	if len(types) != len(wantTypes) {
		t.Fatalf("broadcast events = %v, want %v", types, wantTypes)
	}
	for i, want := range wantTypes {
		if types[i] != want {
			t.Errorf("event[%d] = %q, want %q", i, types[i], want)
		}
	}
}

// A fully drawn round (no penalty decision) must stall: no next round, no
// finish, and the recorded results stay in place.
func TestRegisterResultEliminationStalledRound(t *testing.T) {
	ctx := context.Background()
	f := newMatchFixture(t, models.FormatElimination, [][2]int{{1, 2}, {3, 4}})

	f.register(t, 1, 1, 1)
	f.register(t, 2, 0, 0)

	matches, _ := f.matchRepo.ListByTournament(ctx, nil, f.tournament.ID)
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2 (stalled round must not progress)", len(matches))
	}

	stored, _ := f.tournamentRepo.GetByID(ctx, f.tournament.ID)
	if stored.Status != models.StatusInProgress {
		t.Errorf("tournament status = %q, want in_progress", stored.Status)
	}
}

func TestAmendResultLeague(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})
	f.register(t, 1, 1, 0)

	m, err := f.svc.AmendResult(context.Background(), testOwnerID, 1, ResultInput{
		HomeGoals: intp(1), AwayGoals: intp(3),
	})
	if err != nil {
		t.Fatal(err)
	}
	if *m.HomeGoals != 1 || *m.AwayGoals != 3 {
		t.Errorf("amended score = %d-%d, want 1-3", *m.HomeGoals, *m.AwayGoals)
	}
	if m.State != models.MatchPlayed {
		t.Errorf("state = %q, want played", m.State)
	}
}

func TestAmendResultNotPlayed(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})

	_, err := f.svc.AmendResult(context.Background(), testOwnerID, 1, ResultInput{
		HomeGoals: intp(1), AwayGoals: intp(0),
	})
	if !errors.Is(err, ErrMatchNotPlayed) {
		t.Fatalf("err = %v, want ErrMatchNotPlayed", err)
	}
}

func TestAmendResultEliminationForbidden(t *testing.T) {
	f := newMatchFixture(t, models.FormatElimination, [][2]int{{1, 2}, {3, 4}})
	f.register(t, 1, 2, 0)

	_, err := f.svc.AmendResult(context.Background(), testOwnerID, 1, ResultInput{
		HomeGoals: intp(0), AwayGoals: intp(2),
	})
	if !errors.Is(err, ErrEliminationMatchLocked) {
		t.Fatalf("err = %v, want ErrEliminationMatchLocked", err)
	}
}

func TestClearResultLeague(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})
	_, err := f.svc.RegisterResult(context.Background(), testOwnerID, 1, ResultInput{
		HomeGoals: intp(2), AwayGoals: intp(2),
		Penalties:        true,
		PenaltyHomeGoals: intp(4), PenaltyAwayGoals: intp(2),
	})
	if err != nil {
		t.Fatal(err)
	}

	m, err := f.svc.ClearResult(context.Background(), testOwnerID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if m.State != models.MatchScheduled {
		t.Errorf("state = %q, want scheduled", m.State)
	}
	if m.HomeGoals != nil || m.AwayGoals != nil || m.Penalties || m.PenaltyHomeGoals != nil || m.PenaltyAwayGoals != nil {
		t.Error("clear must wipe the full result, penalties included")
	}

	types := f.hub.eventTypes()
	if len(types) != 2 || types[1] != live.EventMatchCleared {
		t.Errorf("broadcast events = %v, want MATCH_CLEARED last", types)
	}
}

func TestClearResultEliminationForbidden(t *testing.T) {
	f := newMatchFixture(t, models.FormatElimination, [][2]int{{1, 2}, {3, 4}})
	f.register(t, 1, 2, 0)

	_, err := f.svc.ClearResult(context.Background(), testOwnerID, 1)
	if !errors.Is(err, ErrEliminationMatchLocked) {
		t.Fatalf("err = %v, want ErrEliminationMatchLocked", err)
	}
}

func TestClearResultNotPlayed(t *testing.T) {
	f := newMatchFixture(t, models.FormatLeague, [][2]int{{1, 2}})

	_, err := f.svc.ClearResult(context.Background(), testOwnerID, 1)
	if !errors.Is(err, ErrMatchNotPlayed) {
		t.Fatalf("err = %v, want ErrMatchNotPlayed", err)
	}
}
