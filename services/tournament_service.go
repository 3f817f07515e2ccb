package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/bekermanmatias/Torneito-sub000/fixture"
	"github.com/bekermanmatias/Torneito-sub000/models"
	"github.com/bekermanmatias/Torneito-sub000/repositories"
	"golang.org/x/sync/errgroup"
)

// New fixtures start a day out; dates only order the schedule.
const fixtureLeadTime = 24 * time.Hour

type CreateTournamentInput struct {
	Name    string                  `json:"name"`
	Format  models.TournamentFormat `json:"format"`
	TeamIDs []int                   `json:"team_ids"`
}

type TournamentService interface {
	// Create validates the member teams, generates the initial fixture and
	// persists tournament, membership and matches as one unit.
	Create(ctx context.Context, userID int, input CreateTournamentInput) (*models.Tournament, error)
	// Get returns the tournament with teams, matches and, once finished,
	// the champion resolved from the match history.
	Get(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Rename(ctx context.Context, userID, id int, name string) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, userID, id int, status models.TournamentStatus) (*models.Tournament, error)
	Delete(ctx context.Context, userID, id int) error
	// Standings computes the league table from the full match history on
	// every call; nothing is cached.
	Standings(ctx context.Context, id int) ([]fixture.TableRow, error)
}

type tournamentService struct {
	transactor     repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	rnd            *rand.Rand
	logger         *slog.Logger
}

// NewTournamentService wires the fixture engine to persistence. rnd seeds
// elimination brackets; pass a fixed seed in tests, nil for entropy.
func NewTournamentService(
	transactor repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	rnd *rand.Rand,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		transactor:     transactor,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		rnd:            rnd,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, userID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if !input.Format.Valid() {
		return nil, ErrTournamentFormatInvalid
	}
	if err := s.validateTeams(ctx, userID, input.Format, input.TeamIDs); err != nil {
		return nil, err
	}

	generator, err := fixture.NewGenerator(input.Format, s.rnd)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:    input.Name,
		Format:  input.Format,
		Status:  models.StatusPending,
		OwnerID: userID,
	}

	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.tournamentRepo.Create(ctx, exec, tournament); err != nil {
			return err
		}
		if err := s.tournamentRepo.AddTeams(ctx, exec, tournament.ID, input.TeamIDs); err != nil {
			return err
		}

		matches, err := generator.Generate(fixture.GenerateParams{
			TournamentID: tournament.ID,
			TeamIDs:      input.TeamIDs,
			Start:        time.Now().Add(fixtureLeadTime),
		})
		if err != nil {
			return fmt.Errorf("fixture generation failed: %w", err)
		}
		if err := s.matchRepo.CreateBatch(ctx, exec, matches); err != nil {
			return err
		}

		tournament.Matches = matches
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(tournament.Format)),
		slog.Int("teams", len(input.TeamIDs)),
		slog.Int("matches", len(tournament.Matches)))
	return tournament, nil
}

func (s *tournamentService) validateTeams(ctx context.Context, userID int, format models.TournamentFormat, teamIDs []int) error {
	if len(teamIDs) < 2 {
		return ErrTournamentTeamCount
	}
	if !fixture.ValidTeamCount(format, len(teamIDs)) {
		return ErrTournamentPowerOfTwo
	}

	seen := make(map[int]bool, len(teamIDs))
	for _, teamID := range teamIDs {
		if seen[teamID] {
			return ErrTournamentDuplicateTeam
		}
		seen[teamID] = true

		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		if team.OwnerID != userID {
			return ErrForbiddenOperation
		}
	}
	return nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.tournamentRepo.ListTeams(gCtx, id)
		if err != nil {
			return err
		}
		tournament.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return err
		}
		tournament.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %d details: %w", id, err)
	}

	tournament.Champion = fixture.ResolveChampion(tournament, tournament.Teams, tournament.Matches)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) Rename(ctx context.Context, userID, id int, name string) (*models.Tournament, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	tournament, err := s.ownedTournament(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}
	tournament.Name = name
	return tournament, nil
}

// UpdateStatus applies a manual, forward-only status change. League
// completion is a manual call (nothing in the match data marks a league
// done); elimination tournaments finish exclusively through progression.
func (s *tournamentService) UpdateStatus(ctx context.Context, userID, id int, status models.TournamentStatus) (*models.Tournament, error) {
	if !status.Valid() {
		return nil, ErrTournamentStatusInvalid
	}
	tournament, err := s.ownedTournament(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if status == tournament.Status {
		return tournament, nil
	}
	if !tournament.Status.CanTransitionTo(status) {
		return nil, ErrTournamentStatusBackward
	}
	if status == models.StatusFinished && tournament.Format == models.FormatElimination {
		return nil, ErrEliminationManualFinish
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, err
	}
	tournament.Status = status
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.ownedTournament(ctx, userID, id); err != nil {
		return err
	}

	played, err := s.matchRepo.CountPlayedByTournament(ctx, id)
	if err != nil {
		return err
	}
	if played > 0 {
		return ErrTournamentHasResults
	}
	return s.tournamentRepo.Delete(ctx, id)
}

func (s *tournamentService) Standings(ctx context.Context, id int) ([]fixture.TableRow, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if tournament.Format != models.FormatLeague {
		return nil, ErrStandingsLeagueOnly
	}

	var teams []models.Team
	var matches []*models.Match
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.tournamentRepo.ListTeams(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, nil, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data for tournament %d: %w", id, err)
	}

	return fixture.ComputeStandings(teams, matches), nil
}

func (s *tournamentService) ownedTournament(ctx context.Context, userID, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if tournament.OwnerID != userID {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}
