package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"github.com/Dosada05/league-system/utils"
)

var ErrTeamNameRequired = errors.New("team name is required")

type TeamService interface {
	Create(ctx context.Context, input TeamInput) (*models.Team, error)
	Get(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter repositories.TeamFilter) ([]models.Team, error)
	Update(ctx context.Context, actor Actor, id int, input TeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, actor Actor, id int, contentType string, file io.Reader) (*models.Team, error)
}

type TeamInput struct {
	Name           string `json:"name" validate:"required,max=255"`
	Website        string `json:"website" validate:"omitempty,url,max=255"`
	DivisionID     int    `json:"division_id" validate:"required,gt=0"`
	OrganizationID *int   `json:"organization_id"`
	IsActive       *bool  `json:"is_active"`
}

type teamService struct {
	teamRepo    repositories.TeamRepository
	leagueRepo  repositories.LeagueRepository
	permissions *Permissions
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	leagueRepo repositories.LeagueRepository,
	permissions *Permissions,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		leagueRepo:  leagueRepo,
		permissions: permissions,
		uploader:    uploader,
		logger:      logger,
	}
}

func mapTeamError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamDivisionInvalid):
		return ErrDivisionNotFound
	case errors.Is(err, repositories.ErrTeamOrganizationInvalid):
		return ErrOrganizationNotFound
	}
	return err
}

func buildTeam(input TeamInput) (*models.Team, error) {
	name := utils.TitleName(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	team := &models.Team{
		Name:           name,
		Slug:           utils.Slugify(name),
		Website:        strings.TrimSpace(input.Website),
		DivisionID:     input.DivisionID,
		OrganizationID: input.OrganizationID,
		IsActive:       true,
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}
	return team, nil
}

func (s *teamService) Create(ctx context.Context, input TeamInput) (*models.Team, error) {
	team, err := buildTeam(input)
	if err != nil {
		return nil, err
	}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		if mapped := mapTeamError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) Get(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamError(err)
	}
	team.LogoURL = logoURL(team.LogoKey, s.uploader)
	if division, err := s.leagueRepo.GetDivision(ctx, team.DivisionID); err == nil {
		team.Division = division
	} else {
		s.logger.WarnContext(ctx, "failed to load team division", slog.Int("team_id", id), slog.Any("error", err))
	}
	return team, nil
}

func (s *teamService) List(ctx context.Context, filter repositories.TeamFilter) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].LogoURL = logoURL(teams[i].LogoKey, s.uploader)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, actor Actor, id int, input TeamInput) (*models.Team, error) {
	if err := s.permissions.CanManageTeam(ctx, actor, id); err != nil {
		return nil, err
	}
	team, err := buildTeam(input)
	if err != nil {
		return nil, err
	}
	team.ID = id
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, mapTeamError(err)
	}
	return s.Get(ctx, id)
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	return mapTeamError(s.teamRepo.Delete(ctx, id))
}

func (s *teamService) UploadLogo(ctx context.Context, actor Actor, id int, contentType string, file io.Reader) (*models.Team, error) {
	if err := s.permissions.CanManageTeam(ctx, actor, id); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamError(err)
	}
	key, err := replaceLogo(ctx, s.uploader, s.logger, "teams", id, team.LogoKey, contentType, file,
		func(key *string) error { return mapTeamError(s.teamRepo.SetLogo(ctx, id, key)) })
	if err != nil {
		return nil, err
	}
	team.LogoKey = &key
	team.LogoURL = logoURL(team.LogoKey, s.uploader)
	return team, nil
}
