package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bekermanmatias/Torneito-sub000/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// ListByTournament returns the full match list ordered by round (league
	// matches, with no round, first) and then by creation order. Round
	// progression relies on this order to pair winners.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	CountPlayedByTournament(ctx context.Context, tournamentID int) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, home_team_id, away_team_id, home_goals, away_goals,
	date, state, round, penalties, penalty_home_goals, penalty_away_goals`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, home_team_id, away_team_id, home_goals, away_goals,
			 date, state, round, penalties, penalty_home_goals, penalty_away_goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	for _, m := range matches {
		err := executor.QueryRowContext(ctx, query,
			m.TournamentID, m.HomeTeamID, m.AwayTeamID, m.HomeGoals, m.AwayGoals,
			m.Date, m.State, m.Round, m.Penalties, m.PenaltyHomeGoals, m.PenaltyAwayGoals,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to insert match for tournament %d: %w", m.TournamentID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + matchColumns + `FROM matches WHERE id = $1`

	m := &models.Match{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.HomeTeamID, &m.AwayTeamID, &m.HomeGoals, &m.AwayGoals,
		&m.Date, &m.State, &m.Round, &m.Penalties, &m.PenaltyHomeGoals, &m.PenaltyAwayGoals,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round ASC NULLS FIRST, id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.HomeTeamID, &m.AwayTeamID, &m.HomeGoals, &m.AwayGoals,
			&m.Date, &m.State, &m.Round, &m.Penalties, &m.PenaltyHomeGoals, &m.PenaltyAwayGoals,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET home_goals = $1, away_goals = $2, state = $3,
		    penalties = $4, penalty_home_goals = $5, penalty_away_goals = $6
		WHERE id = $7`

	result, err := executor.ExecContext(ctx, query,
		match.HomeGoals, match.AwayGoals, match.State,
		match.Penalties, match.PenaltyHomeGoals, match.PenaltyAwayGoals,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update result of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountPlayedByTournament(ctx context.Context, tournamentID int) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND state = 'played'`

	var count int
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count played matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}
