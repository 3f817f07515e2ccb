package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bekermanmatias/Torneito-sub000/models"
	"github.com/bekermanmatias/Torneito-sub000/repositories"
	"github.com/bekermanmatias/Torneito-sub000/storage"
)

var ErrCrestInvalidContentType = errors.New("crest must be a png or jpeg image")

type TeamService interface {
	Create(ctx context.Context, userID int, name string) (*models.Team, error)
	Get(ctx context.Context, id int) (*models.Team, error)
	ListByOwner(ctx context.Context, userID int) ([]*models.Team, error)
	Rename(ctx context.Context, userID, id int, name string) (*models.Team, error)
	// Delete refuses to remove a team that already played a match; the
	// match history must stay attributable.
	Delete(ctx context.Context, userID, id int) error
	UploadCrest(ctx context.Context, userID, id int, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *teamService) Create(ctx context.Context, userID int, name string) (*models.Team, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	team := &models.Team{Name: name, OwnerID: userID}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) Get(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) ListByOwner(ctx context.Context, userID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user %d: %w", userID, err)
	}
	for _, team := range teams {
		s.populateCrestURL(team)
	}
	return teams, nil
}

func (s *teamService) Rename(ctx context.Context, userID, id int, name string) (*models.Team, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	team, err := s.ownedTeam(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	team.Name = name
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, userID, id int) error {
	team, err := s.ownedTeam(ctx, userID, id)
	if err != nil {
		return err
	}

	played, err := s.teamRepo.HasPlayedMatches(ctx, id)
	if err != nil {
		return err
	}
	if played {
		return ErrTeamHasPlayedMatches
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamInUse) {
			return ErrTeamHasPlayedMatches
		}
		return err
	}

	if team.CrestKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *team.CrestKey); err != nil {
			s.logger.Warn("failed to delete crest after team removal",
				slog.Int("team_id", id), slog.Any("error", err))
		}
	}
	return nil
}

func (s *teamService) UploadCrest(ctx context.Context, userID, id int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.ownedTeam(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	ext, ok := crestExtension(contentType)
	if !ok {
		return nil, ErrCrestInvalidContentType
	}

	key := fmt.Sprintf("teams/%d/crest_%d.%s", id, time.Now().Unix(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest for team %d: %w", id, err)
	}

	oldKey := team.CrestKey
	if err := s.teamRepo.UpdateCrestKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	team.CrestKey = &result.Key

	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous crest",
				slog.Int("team_id", id), slog.Any("error", err))
		}
	}

	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) ownedTeam(ctx context.Context, userID, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.OwnerID != userID {
		return nil, ErrForbiddenOperation
	}
	return team, nil
}

func (s *teamService) populateCrestURL(team *models.Team) {
	if team.CrestKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*team.CrestKey)
		team.CrestURL = &url
	}
}

func crestExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/png":
		return "png", true
	case "image/jpeg", "image/jpg":
		return "jpg", true
	default:
		return "", false
	}
}
