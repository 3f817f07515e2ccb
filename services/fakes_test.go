package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/bekermanmatias/Torneito-sub000/models"
	"github.com/bekermanmatias/Torneito-sub000/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intp(n int) *int { return &n }

// fakeTransactor runs the unit of work without a database.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	for _, m := range matches {
		m.ID = r.nextID
		r.nextID++
		stored := *m
		r.matches[m.ID] = &stored
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			copied := *m
			matches = append(matches, &copied)
		}
	}
	// Storage order: league matches (no round) first, then by round, then
	// by creation order.
	sort.Slice(matches, func(i, j int) bool {
		ri, rj := matches[i].Round, matches[j].Round
		switch {
		case ri == nil && rj != nil:
			return true
		case ri != nil && rj == nil:
			return false
		case ri != nil && rj != nil && *ri != *rj:
			return *ri < *rj
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	stored := *match
	r.matches[match.ID] = &stored
	return nil
}

func (r *fakeMatchRepo) CountPlayedByTournament(ctx context.Context, tournamentID int) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.Played() {
			count++
		}
	}
	return count, nil
}

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
	members     map[int][]models.Team
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{
		nextID:      1,
		tournaments: make(map[int]*models.Tournament),
		members:     make(map[int][]models.Team),
	}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	t.ID = r.nextID
	r.nextID++
	stored := *t
	r.tournaments[t.ID] = &stored
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	out := make([]models.Tournament, 0)
	for _, t := range r.tournaments {
		if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Format != nil && t.Format != *filter.Format {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) UpdateName(ctx context.Context, id int, name string) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Name = name
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	delete(r.members, id)
	return nil
}

func (r *fakeTournamentRepo) AddTeams(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, teamIDs []int) error {
	for _, teamID := range teamIDs {
		r.members[tournamentID] = append(r.members[tournamentID], models.Team{ID: teamID})
	}
	return nil
}

func (r *fakeTournamentRepo) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	return r.members[tournamentID], nil
}

type fakeTeamRepo struct {
	nextID int
	teams  map[int]*models.Team
	played map[int]bool
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, teams: make(map[int]*models.Team), played: make(map[int]bool)}
}

func (r *fakeTeamRepo) addTeam(t *testing.T, ownerID int, name string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, OwnerID: ownerID}
	if err := r.Create(context.Background(), team); err != nil {
		t.Fatal(err)
	}
	return team
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	for _, existing := range r.teams {
		if existing.OwnerID == team.OwnerID && existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	stored := *team
	r.teams[team.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) ListByOwner(ctx context.Context, ownerID int) ([]*models.Team, error) {
	teams := make([]*models.Team, 0)
	for _, team := range r.teams {
		if team.OwnerID == ownerID {
			copied := *team
			teams = append(teams, &copied)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (r *fakeTeamRepo) UpdateName(ctx context.Context, id int, name string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Name = name
	return nil
}

func (r *fakeTeamRepo) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.CrestKey = crestKey
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) HasPlayedMatches(ctx context.Context, teamID int) (bool, error) {
	return r.played[teamID], nil
}
