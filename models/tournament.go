package models

import "time"

// TournamentFormat определяет, как строится расписание турнира.
type TournamentFormat string

const (
	FormatLeague      TournamentFormat = "league"
	FormatElimination TournamentFormat = "elimination"
)

func (f TournamentFormat) Valid() bool {
	return f == FormatLeague || f == FormatElimination
}

type TournamentStatus string

const (
	StatusPending    TournamentStatus = "pending"
	StatusInProgress TournamentStatus = "in_progress"
	StatusFinished   TournamentStatus = "finished"
)

func (s TournamentStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusFinished
}

// CanTransitionTo enforces the forward-only lifecycle
// pending -> in_progress -> finished.
func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusFinished
	case StatusInProgress:
		return next == StatusFinished
	default:
		return false
	}
}

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Format    TournamentFormat `json:"format" db:"format"`
	Status    TournamentStatus `json:"status" db:"status"`
	OwnerID   int              `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	// Связанные сущности, подгружаются сервисом по запросу.
	Teams    []Team   `json:"teams,omitempty" db:"-"`
	Matches  []*Match `json:"matches,omitempty" db:"-"`
	Champion *Team    `json:"champion,omitempty" db:"-"`
}
