package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bekermanmatias/Torneito-sub000/fixture"
	"github.com/bekermanmatias/Torneito-sub000/live"
	"github.com/bekermanmatias/Torneito-sub000/models"
	"github.com/bekermanmatias/Torneito-sub000/repositories"
)

// Broadcaster pushes fixture events to live subscribers. The websocket hub
// implements it; a nil Broadcaster disables broadcasting.
type Broadcaster interface {
	BroadcastToTournament(tournamentID int, event live.Event)
}

// ResultInput is a proposed match result. Penalty fields are only examined
// when Penalties is set.
type ResultInput struct {
	HomeGoals        *int `json:"home_goals"`
	AwayGoals        *int `json:"away_goals"`
	Penalties        bool `json:"penalties"`
	PenaltyHomeGoals *int `json:"penalty_home_goals"`
	PenaltyAwayGoals *int `json:"penalty_away_goals"`
}

type MatchService interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// RegisterResult records the first result of a scheduled match. For
	// elimination tournaments it also runs round progression: completing a
	// round materializes the next one, or finishes the tournament when a
	// single winner remains.
	RegisterResult(ctx context.Context, userID, matchID int, input ResultInput) (*models.Match, error)
	// AmendResult overwrites an already registered result. League only.
	AmendResult(ctx context.Context, userID, matchID int, input ResultInput) (*models.Match, error)
	// ClearResult reverts a played match to scheduled. League only.
	ClearResult(ctx context.Context, userID, matchID int) (*models.Match, error)
}

type matchService struct {
	transactor     repositories.Transactor
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	hub            Broadcaster
	logger         *slog.Logger
}

func NewMatchService(
	transactor repositories.Transactor,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	hub Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		transactor:     transactor,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) RegisterResult(ctx context.Context, userID, matchID int, input ResultInput) (*models.Match, error) {
	var updated *models.Match
	var events []live.Event
	var tournamentID int

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, tournament, err := s.lockMatch(ctx, exec, userID, matchID)
		if err != nil {
			return err
		}
		tournamentID = tournament.ID

		if match.Played() {
			return ErrMatchAlreadyPlayed
		}
		if err := validateResult(input); err != nil {
			return err
		}

		applyResult(match, input)
		if err := s.matchRepo.UpdateResult(ctx, exec, match); err != nil {
			return err
		}
		events = append(events, live.Event{Type: live.EventMatchResult, Payload: match})

		if tournament.Status == models.StatusPending {
			if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusInProgress); err != nil {
				return err
			}
			tournament.Status = models.StatusInProgress
		}

		if tournament.Format == models.FormatElimination {
			progressionEvents, err := s.progressRound(ctx, exec, tournament, *match.Round)
			if err != nil {
				return err
			}
			events = append(events, progressionEvents...)
		}

		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, events)
	return updated, nil
}

func (s *matchService) AmendResult(ctx context.Context, userID, matchID int, input ResultInput) (*models.Match, error) {
	var updated *models.Match
	var tournamentID int

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, tournament, err := s.lockMatch(ctx, exec, userID, matchID)
		if err != nil {
			return err
		}
		tournamentID = tournament.ID

		if tournament.Format == models.FormatElimination {
			// Later rounds may already depend on this match's winner.
			return ErrEliminationMatchLocked
		}
		if !match.Played() {
			return ErrMatchNotPlayed
		}
		if err := validateResult(input); err != nil {
			return err
		}

		applyResult(match, input)
		if err := s.matchRepo.UpdateResult(ctx, exec, match); err != nil {
			return err
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, []live.Event{{Type: live.EventMatchResult, Payload: updated}})
	return updated, nil
}

func (s *matchService) ClearResult(ctx context.Context, userID, matchID int) (*models.Match, error) {
	var updated *models.Match
	var tournamentID int

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, tournament, err := s.lockMatch(ctx, exec, userID, matchID)
		if err != nil {
			return err
		}
		tournamentID = tournament.ID

		if tournament.Format == models.FormatElimination {
			return ErrEliminationMatchLocked
		}
		if !match.Played() {
			return ErrMatchNotPlayed
		}

		match.HomeGoals = nil
		match.AwayGoals = nil
		match.Penalties = false
		match.PenaltyHomeGoals = nil
		match.PenaltyAwayGoals = nil
		match.State = models.MatchScheduled
		if err := s.matchRepo.UpdateResult(ctx, exec, match); err != nil {
			return err
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, []live.Event{{Type: live.EventMatchCleared, Payload: updated}})
	return updated, nil
}

// lockMatch loads the match, takes the per-tournament row lock, then
// re-reads the match under that lock. All result writes go through here, so
// two concurrent writes against the same tournament serialize on the lock
// and the second one sees the first one's state.
func (s *matchService) lockMatch(ctx context.Context, exec repositories.SQLExecutor, userID, matchID int) (*models.Match, *models.Tournament, error) {
	match, err := s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}

	tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, match.TournamentID)
	if err != nil {
		return nil, nil, mapTournamentRepoError(err)
	}
	if tournament.OwnerID != userID {
		return nil, nil, ErrForbiddenOperation
	}

	match, err = s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, nil, err
	}
	return match, tournament, nil
}

// progressRound checks whether the given elimination round is complete and,
// if so, persists the next round or finishes the tournament. It is a no-op
// when the round is still open, already progressed, or fully drawn.
func (s *matchService) progressRound(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, round int) ([]live.Event, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, exec, tournament.ID)
	if err != nil {
		return nil, err
	}

	outcome, err := fixture.AdvanceRound(tournament.ID, matches, round)
	if err != nil {
		return nil, fmt.Errorf("round progression failed for tournament %d: %w", tournament.ID, err)
	}
	if outcome == nil {
		return nil, nil
	}

	if outcome.DroppedTeamID != nil {
		// Known degenerate case: an odd winner count silently drops the
		// last winner from the bracket.
		s.logger.Warn("odd winner count, team left unpaired",
			slog.Int("tournament_id", tournament.ID),
			slog.Int("round", round),
			slog.Int("team_id", *outcome.DroppedTeamID))
	}

	if outcome.Finished {
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusFinished); err != nil {
			return nil, err
		}
		tournament.Status = models.StatusFinished
		return []live.Event{{
			Type:    live.EventTournamentFinished,
			Payload: map[string]int{"tournament_id": tournament.ID, "champion_team_id": outcome.ChampionTeamID},
		}}, nil
	}

	if err := s.matchRepo.CreateBatch(ctx, exec, outcome.NextRound); err != nil {
		return nil, err
	}
	return []live.Event{{Type: live.EventRoundGenerated, Payload: outcome.NextRound}}, nil
}

func (s *matchService) broadcast(tournamentID int, events []live.Event) {
	if s.hub == nil {
		return
	}
	for _, event := range events {
		s.hub.BroadcastToTournament(tournamentID, event)
	}
}

func validateResult(input ResultInput) error {
	if input.HomeGoals == nil || input.AwayGoals == nil {
		return ErrResultGoalsRequired
	}
	if *input.HomeGoals < 0 || *input.AwayGoals < 0 {
		return ErrResultGoalsNegative
	}
	if input.Penalties {
		if *input.HomeGoals != *input.AwayGoals {
			return ErrPenaltyRequiresDraw
		}
		if input.PenaltyHomeGoals == nil || input.PenaltyAwayGoals == nil {
			return ErrPenaltyGoalsRequired
		}
		if *input.PenaltyHomeGoals < 0 || *input.PenaltyAwayGoals < 0 {
			return ErrPenaltyGoalsNegative
		}
	}
	return nil
}

func applyResult(match *models.Match, input ResultInput) {
	match.HomeGoals = input.HomeGoals
	match.AwayGoals = input.AwayGoals
	match.Penalties = input.Penalties
	if input.Penalties {
		match.PenaltyHomeGoals = input.PenaltyHomeGoals
		match.PenaltyAwayGoals = input.PenaltyAwayGoals
	} else {
		match.PenaltyHomeGoals = nil
		match.PenaltyAwayGoals = nil
	}
	match.State = models.MatchPlayed
}

func mapTournamentRepoError(err error) error {
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}
