package services

import "errors"

// Общие ошибки сервисного слоя; маппинг в HTTP-статусы живёт в handlers.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации (400/422): вызывающий может исправить ввод и повторить.
	ErrValidationFailed        = errors.New("validation failed")
	ErrNameRequired            = errors.New("name is required")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrTournamentFormatInvalid = errors.New("tournament format must be league or elimination")
	ErrTournamentTeamCount     = errors.New("tournament requires at least 2 teams")
	ErrTournamentPowerOfTwo    = errors.New("elimination tournament requires a power-of-two team count")
	ErrTournamentDuplicateTeam = errors.New("a team cannot be added to a tournament twice")
	ErrTournamentStatusInvalid = errors.New("invalid tournament status provided")
	ErrResultGoalsRequired     = errors.New("both home and away goals are required")
	ErrResultGoalsNegative     = errors.New("goals cannot be negative")
	ErrPenaltyRequiresDraw     = errors.New("penalties are only allowed when regulation goals are tied")
	ErrPenaltyGoalsRequired    = errors.New("both penalty scores are required when penalties are set")
	ErrPenaltyGoalsNegative    = errors.New("penalty scores cannot be negative")

	// Ошибки конфликтов (409): операция недопустима в текущем состоянии.
	ErrMatchAlreadyPlayed       = errors.New("match result is already registered")
	ErrMatchNotPlayed           = errors.New("match has no registered result")
	ErrEliminationMatchLocked   = errors.New("elimination match results cannot be changed once registered")
	ErrEliminationManualFinish  = errors.New("elimination tournaments finish through round progression, not status edits")
	ErrTournamentStatusBackward = errors.New("tournament status can only move forward")
	ErrTournamentHasResults     = errors.New("tournament cannot be deleted once results are recorded")
	ErrTeamHasPlayedMatches     = errors.New("team cannot be deleted once it played a match")
	ErrStandingsLeagueOnly      = errors.New("standings are only available for league tournaments")

	// Аутентификация и доступ
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNameConflict   = errors.New("team name is already in use")
)
