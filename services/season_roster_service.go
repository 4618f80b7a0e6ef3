package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

var (
	ErrRosterNameRequired    = errors.New("roster name is required")
	ErrRosterNeedsGoalie     = errors.New("a season roster must include at least one goaltender")
	ErrRosterTeamNotInSeason = errors.New("team does not play in this season")
	ErrRosterPlayerInvalid   = errors.New("roster players must be active players of the team")
)

type SeasonRosterService interface {
	Create(ctx context.Context, actor Actor, input SeasonRosterInput) (*models.SeasonRoster, error)
	Get(ctx context.Context, id int) (*models.SeasonRoster, error)
	List(ctx context.Context, seasonID, teamID int) ([]models.SeasonRoster, error)
	Update(ctx context.Context, actor Actor, id int, input SeasonRosterInput) (*models.SeasonRoster, error)
	Delete(ctx context.Context, actor Actor, id int) error
}

type SeasonRosterInput struct {
	Name      string `json:"name" validate:"required,notblank,max=255"`
	SeasonID  int    `json:"-"`
	TeamID    int    `json:"team_id" validate:"required,gt=0"`
	Default   bool   `json:"default"`
	PlayerIDs []int  `json:"player_ids" validate:"required,min=1"`
}

type seasonRosterService struct {
	rosterRepo  repositories.SeasonRosterRepository
	seasonRepo  repositories.SeasonRepository
	roleRepo    repositories.RoleRepository
	permissions *Permissions
	tx          repositories.Transactor
	logger      *slog.Logger
}

func NewSeasonRosterService(
	rosterRepo repositories.SeasonRosterRepository,
	seasonRepo repositories.SeasonRepository,
	roleRepo repositories.RoleRepository,
	permissions *Permissions,
	tx repositories.Transactor,
	logger *slog.Logger,
) SeasonRosterService {
	return &seasonRosterService{
		rosterRepo:  rosterRepo,
		seasonRepo:  seasonRepo,
		roleRepo:    roleRepo,
		permissions: permissions,
		tx:          tx,
		logger:      logger,
	}
}

func mapRosterError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrRosterNotFound):
		return ErrRosterNotFound
	case errors.Is(err, repositories.ErrRosterNameConflict):
		return ErrRosterNameConflict
	case errors.Is(err, repositories.ErrRosterDefaultConflict):
		return ErrRosterDefaultConflict
	case errors.Is(err, repositories.ErrRosterReferenceInvalid):
		return ErrRosterPlayerInvalid
	}
	return err
}

// buildRoster checks the season, the team and the players of a roster.
func (s *seasonRosterService) buildRoster(ctx context.Context, input SeasonRosterInput) (*models.SeasonRoster, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrRosterNameRequired
	}

	season, err := s.seasonRepo.GetByID(ctx, input.SeasonID)
	if err != nil {
		return nil, mapSeasonError(err)
	}
	if !containsInt(season.TeamIDs, input.TeamID) {
		return nil, ErrRosterTeamNotInSeason
	}

	playerIDs := uniqueInts(input.PlayerIDs)
	players, err := s.roleRepo.ListPlayersByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster players: %w", err)
	}
	if len(players) != len(playerIDs) {
		return nil, ErrRosterPlayerInvalid
	}
	hasGoalie := false
	for _, p := range players {
		if p.TeamID != input.TeamID || !p.IsActive {
			return nil, fmt.Errorf("%w: player %d", ErrRosterPlayerInvalid, p.ID)
		}
		if p.IsGoalie() {
			hasGoalie = true
		}
	}
	if !hasGoalie {
		return nil, ErrRosterNeedsGoalie
	}

	return &models.SeasonRoster{
		Name:      name,
		SeasonID:  input.SeasonID,
		TeamID:    input.TeamID,
		Default:   input.Default,
		PlayerIDs: playerIDs,
	}, nil
}

func (s *seasonRosterService) Create(ctx context.Context, actor Actor, input SeasonRosterInput) (*models.SeasonRoster, error) {
	if err := s.permissions.CanManageTeam(ctx, actor, input.TeamID); err != nil {
		return nil, err
	}
	roster, err := s.buildRoster(ctx, input)
	if err != nil {
		return nil, err
	}
	createdBy := actor.UserID
	roster.CreatedBy = &createdBy

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// The partial unique index on defaults must be free before the insert.
		if roster.Default {
			if err := s.rosterRepo.ClearDefault(ctx, exec, roster.SeasonID, roster.TeamID, 0); err != nil {
				return err
			}
		}
		return s.rosterRepo.Create(ctx, exec, roster)
	})
	if err != nil {
		if mapped := mapRosterError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create season roster: %w", err)
	}

	s.logger.InfoContext(ctx, "season roster created",
		slog.Int("roster_id", roster.ID),
		slog.Int("team_id", roster.TeamID),
		slog.Bool("default", roster.Default))
	return roster, nil
}

func (s *seasonRosterService) Get(ctx context.Context, id int) (*models.SeasonRoster, error) {
	roster, err := s.rosterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRosterError(err)
	}
	players, err := s.roleRepo.ListPlayersByIDs(ctx, roster.PlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster players: %w", err)
	}
	roster.Players = players
	return roster, nil
}

func (s *seasonRosterService) List(ctx context.Context, seasonID, teamID int) ([]models.SeasonRoster, error) {
	return s.rosterRepo.List(ctx, seasonID, teamID)
}

func (s *seasonRosterService) Update(ctx context.Context, actor Actor, id int, input SeasonRosterInput) (*models.SeasonRoster, error) {
	current, err := s.rosterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRosterError(err)
	}
	if err := s.permissions.CanManageTeam(ctx, actor, current.TeamID); err != nil {
		return nil, err
	}
	input.SeasonID = current.SeasonID
	input.TeamID = current.TeamID
	roster, err := s.buildRoster(ctx, input)
	if err != nil {
		return nil, err
	}
	roster.ID = id
	roster.CreatedBy = current.CreatedBy
	roster.CreatedAt = current.CreatedAt

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if roster.Default {
			if err := s.rosterRepo.ClearDefault(ctx, exec, roster.SeasonID, roster.TeamID, roster.ID); err != nil {
				return err
			}
		}
		return s.rosterRepo.Update(ctx, exec, roster)
	})
	if err != nil {
		if mapped := mapRosterError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update season roster %d: %w", id, err)
	}
	return roster, nil
}

func (s *seasonRosterService) Delete(ctx context.Context, actor Actor, id int) error {
	roster, err := s.rosterRepo.GetByID(ctx, id)
	if err != nil {
		return mapRosterError(err)
	}
	if err := s.permissions.CanManageTeam(ctx, actor, roster.TeamID); err != nil {
		return err
	}
	return mapRosterError(s.rosterRepo.Delete(ctx, id))
}
