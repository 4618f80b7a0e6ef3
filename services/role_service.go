package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

var (
	ErrInvalidPosition       = errors.New("invalid position")
	ErrInvalidHandedness     = errors.New("handedness must be Left or Right")
	ErrJerseyNumberInvalid   = errors.New("jersey number must be between 0 and 99")
	ErrPlayerUpdateDisabled  = errors.New("player updates are currently disabled")
	ErrRoleRecordForeignUser = errors.New("role records can only be created for yourself")
)

type RoleService interface {
	CreatePlayer(ctx context.Context, actor Actor, input PlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, actor Actor, id int, input PlayerUpdateInput) (*models.Player, error)
	CreateCoach(ctx context.Context, actor Actor, input CoachInput) (*models.Coach, error)
	CreateReferee(ctx context.Context, actor Actor, input RefereeInput) (*models.Referee, error)
	CreateManager(ctx context.Context, actor Actor, input ManagerInput) (*models.Manager, error)
	CreateScorekeeper(ctx context.Context, actor Actor, input ScorekeeperInput) (*models.Scorekeeper, error)

	ListPlayers(ctx context.Context, filter models.RoleFilter) ([]models.Player, error)
	ListCoaches(ctx context.Context, filter models.RoleFilter) ([]models.Coach, error)
	ListReferees(ctx context.Context, filter models.RoleFilter) ([]models.Referee, error)
	ListManagers(ctx context.Context, filter models.RoleFilter) ([]models.Manager, error)
	ListScorekeepers(ctx context.Context, filter models.RoleFilter) ([]models.Scorekeeper, error)

	// Deactivate marks a role record inactive. Owners and staff may do so.
	Deactivate(ctx context.Context, actor Actor, role models.Role, id int) error
}

type PlayerInput struct {
	UserID       int    `json:"user_id"`
	TeamID       int    `json:"team_id" validate:"required,gt=0"`
	JerseyNumber int    `json:"jersey_number" validate:"min=0,max=99"`
	Position     string `json:"position" validate:"required"`
	Handedness   string `json:"handedness" validate:"required"`
}

type PlayerUpdateInput struct {
	JerseyNumber int    `json:"jersey_number" validate:"min=0,max=99"`
	Position     string `json:"position" validate:"required"`
	Handedness   string `json:"handedness" validate:"required"`
}

type CoachInput struct {
	UserID   int    `json:"user_id"`
	TeamID   int    `json:"team_id" validate:"required,gt=0"`
	Position string `json:"position" validate:"required"`
}

type RefereeInput struct {
	UserID   int `json:"user_id"`
	LeagueID int `json:"league_id" validate:"required,gt=0"`
}

type ManagerInput struct {
	UserID int `json:"user_id"`
	TeamID int `json:"team_id" validate:"required,gt=0"`
}

type ScorekeeperInput struct {
	UserID  int `json:"user_id"`
	SportID int `json:"sport_id" validate:"required,gt=0"`
}

type roleService struct {
	roleRepo         repositories.RoleRepository
	teamRepo         repositories.TeamRepository
	leagueRepo       repositories.LeagueRepository
	registrationRepo repositories.RegistrationRepository
	registrations    RegistrationService
	switches         SwitchService
	logger           *slog.Logger
}

func NewRoleService(
	roleRepo repositories.RoleRepository,
	teamRepo repositories.TeamRepository,
	leagueRepo repositories.LeagueRepository,
	registrationRepo repositories.RegistrationRepository,
	registrations RegistrationService,
	switches SwitchService,
	logger *slog.Logger,
) RoleService {
	return &roleService{
		roleRepo:         roleRepo,
		teamRepo:         teamRepo,
		leagueRepo:       leagueRepo,
		registrationRepo: registrationRepo,
		registrations:    registrations,
		switches:         switches,
		logger:           logger,
	}
}

func mapRoleError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrRoleRecordNotFound):
		return ErrRoleRecordNotFound
	case errors.Is(err, repositories.ErrRoleRecordConflict):
		return ErrRoleRecordConflict
	case errors.Is(err, repositories.ErrJerseyNumberTaken):
		return ErrJerseyNumberTaken
	case errors.Is(err, repositories.ErrJerseyNumberInvalid):
		return ErrJerseyNumberInvalid
	case errors.Is(err, repositories.ErrRoleRecordRefInvalid):
		return ErrNotFound
	}
	return err
}

// subject resolves whom a record is created for. Only staff may act for another user.
func subject(actor Actor, userID int) (int, error) {
	if userID == 0 || userID == actor.UserID {
		return actor.UserID, nil
	}
	if !actor.IsStaff {
		return 0, ErrRoleRecordForeignUser
	}
	return userID, nil
}

func (s *roleService) sportOfLeague(ctx context.Context, leagueID int) (int, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return 0, mapLeagueError(err)
	}
	return league.SportID, nil
}

// sportOfTeam follows team, division and league to the sport.
func (s *roleService) sportOfTeam(ctx context.Context, teamID int) (int, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return 0, mapTeamError(err)
	}
	division, err := s.leagueRepo.GetDivision(ctx, team.DivisionID)
	if err != nil {
		return 0, mapLeagueError(err)
	}
	return s.sportOfLeague(ctx, division.LeagueID)
}

// requireRegistered checks that userID registered role for sportID.
func (s *roleService) requireRegistered(ctx context.Context, userID, sportID int, role models.Role) error {
	reg, err := s.registrationRepo.GetByUserAndSport(ctx, userID, sportID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return fmt.Errorf("%w: %s", ErrRoleNotRegistered, role)
		}
		return fmt.Errorf("failed to load sport registration: %w", err)
	}
	if !reg.RolesMask.Has(role) {
		return fmt.Errorf("%w: %s", ErrRoleNotRegistered, role)
	}
	return nil
}

func (s *roleService) refresh(ctx context.Context, userID, sportID int) {
	if _, err := s.registrations.RefreshCompletion(ctx, userID, sportID); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh registration completion",
			slog.Int("user_id", userID),
			slog.Int("sport_id", sportID),
			slog.Any("error", err))
	}
}

func validatePlayerFields(jersey int, position, handedness string) error {
	if jersey < 0 || jersey > 99 {
		return ErrJerseyNumberInvalid
	}
	if !models.Position(position).Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPosition, position)
	}
	if !models.Handedness(handedness).Valid() {
		return ErrInvalidHandedness
	}
	return nil
}

func (s *roleService) CreatePlayer(ctx context.Context, actor Actor, input PlayerInput) (*models.Player, error) {
	userID, err := subject(actor, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := validatePlayerFields(input.JerseyNumber, input.Position, input.Handedness); err != nil {
		return nil, err
	}
	sportID, err := s.sportOfTeam(ctx, input.TeamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRegistered(ctx, userID, sportID, models.RolePlayer); err != nil {
		return nil, err
	}

	player := &models.Player{
		UserID:       userID,
		SportID:      sportID,
		TeamID:       input.TeamID,
		JerseyNumber: input.JerseyNumber,
		Position:     models.Position(input.Position),
		Handedness:   models.Handedness(input.Handedness),
		IsActive:     true,
	}
	if err := s.roleRepo.CreatePlayer(ctx, player); err != nil {
		if mapped := mapRoleError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	s.refresh(ctx, userID, sportID)
	return player, nil
}

func (s *roleService) UpdatePlayer(ctx context.Context, actor Actor, id int, input PlayerUpdateInput) (*models.Player, error) {
	player, err := s.roleRepo.GetPlayer(ctx, id)
	if err != nil {
		return nil, mapRoleError(err)
	}
	if !actor.IsStaff {
		if player.UserID != actor.UserID {
			return nil, ErrForbiddenOperation
		}
		if !s.switches.IsActive(ctx, models.SwitchPlayerUpdate) {
			return nil, ErrPlayerUpdateDisabled
		}
	}
	if err := validatePlayerFields(input.JerseyNumber, input.Position, input.Handedness); err != nil {
		return nil, err
	}
	player.JerseyNumber = input.JerseyNumber
	player.Position = models.Position(input.Position)
	player.Handedness = models.Handedness(input.Handedness)
	if err := s.roleRepo.UpdatePlayer(ctx, player); err != nil {
		return nil, mapRoleError(err)
	}
	return player, nil
}

func (s *roleService) CreateCoach(ctx context.Context, actor Actor, input CoachInput) (*models.Coach, error) {
	userID, err := subject(actor, input.UserID)
	if err != nil {
		return nil, err
	}
	if !models.CoachPosition(input.Position).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, input.Position)
	}
	sportID, err := s.sportOfTeam(ctx, input.TeamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRegistered(ctx, userID, sportID, models.RoleCoach); err != nil {
		return nil, err
	}
	coach := &models.Coach{
		UserID:   userID,
		TeamID:   input.TeamID,
		Position: models.CoachPosition(input.Position),
		IsActive: true,
	}
	if err := s.roleRepo.CreateCoach(ctx, coach); err != nil {
		if mapped := mapRoleError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create coach: %w", err)
	}
	s.refresh(ctx, userID, sportID)
	return coach, nil
}

func (s *roleService) CreateReferee(ctx context.Context, actor Actor, input RefereeInput) (*models.Referee, error) {
	userID, err := subject(actor, input.UserID)
	if err != nil {
		return nil, err
	}
	sportID, err := s.sportOfLeague(ctx, input.LeagueID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRegistered(ctx, userID, sportID, models.RoleReferee); err != nil {
		return nil, err
	}
	ref := &models.Referee{UserID: userID, LeagueID: input.LeagueID, IsActive: true}
	if err := s.roleRepo.CreateReferee(ctx, ref); err != nil {
		if mapped := mapRoleError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create referee: %w", err)
	}
	s.refresh(ctx, userID, sportID)
	return ref, nil
}

func (s *roleService) CreateManager(ctx context.Context, actor Actor, input ManagerInput) (*models.Manager, error) {
	userID, err := subject(actor, input.UserID)
	if err != nil {
		return nil, err
	}
	sportID, err := s.sportOfTeam(ctx, input.TeamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRegistered(ctx, userID, sportID, models.RoleManager); err != nil {
		return nil, err
	}
	manager := &models.Manager{UserID: userID, TeamID: input.TeamID, IsActive: true}
	if err := s.roleRepo.CreateManager(ctx, manager); err != nil {
		if mapped := mapRoleError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}
	s.refresh(ctx, userID, sportID)
	return manager, nil
}

func (s *roleService) CreateScorekeeper(ctx context.Context, actor Actor, input ScorekeeperInput) (*models.Scorekeeper, error) {
	userID, err := subject(actor, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRegistered(ctx, userID, input.SportID, models.RoleScorekeeper); err != nil {
		return nil, err
	}
	sk := &models.Scorekeeper{UserID: userID, SportID: input.SportID, IsActive: true}
	if err := s.roleRepo.CreateScorekeeper(ctx, sk); err != nil {
		if mapped := mapRoleError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create scorekeeper: %w", err)
	}
	s.refresh(ctx, userID, input.SportID)
	return sk, nil
}

func (s *roleService) ListPlayers(ctx context.Context, filter models.RoleFilter) ([]models.Player, error) {
	return s.roleRepo.ListPlayers(ctx, filter)
}

func (s *roleService) ListCoaches(ctx context.Context, filter models.RoleFilter) ([]models.Coach, error) {
	return s.roleRepo.ListCoaches(ctx, filter)
}

func (s *roleService) ListReferees(ctx context.Context, filter models.RoleFilter) ([]models.Referee, error) {
	return s.roleRepo.ListReferees(ctx, filter)
}

func (s *roleService) ListManagers(ctx context.Context, filter models.RoleFilter) ([]models.Manager, error) {
	return s.roleRepo.ListManagers(ctx, filter)
}

func (s *roleService) ListScorekeepers(ctx context.Context, filter models.RoleFilter) ([]models.Scorekeeper, error) {
	return s.roleRepo.ListScorekeepers(ctx, filter)
}

// owner returns the user and sport of a role record.
func (s *roleService) owner(ctx context.Context, role models.Role, id int) (userID, sportID int, err error) {
	switch role {
	case models.RolePlayer:
		p, err := s.roleRepo.GetPlayer(ctx, id)
		if err != nil {
			return 0, 0, mapRoleError(err)
		}
		return p.UserID, p.SportID, nil
	case models.RoleCoach:
		c, err := s.roleRepo.GetCoach(ctx, id)
		if err != nil {
			return 0, 0, mapRoleError(err)
		}
		sportID, err := s.sportOfTeam(ctx, c.TeamID)
		return c.UserID, sportID, err
	case models.RoleReferee:
		r, err := s.roleRepo.GetReferee(ctx, id)
		if err != nil {
			return 0, 0, mapRoleError(err)
		}
		sportID, err := s.sportOfLeague(ctx, r.LeagueID)
		return r.UserID, sportID, err
	case models.RoleManager:
		m, err := s.roleRepo.GetManager(ctx, id)
		if err != nil {
			return 0, 0, mapRoleError(err)
		}
		sportID, err := s.sportOfTeam(ctx, m.TeamID)
		return m.UserID, sportID, err
	case models.RoleScorekeeper:
		sk, err := s.roleRepo.GetScorekeeper(ctx, id)
		if err != nil {
			return 0, 0, mapRoleError(err)
		}
		return sk.UserID, sk.SportID, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", models.ErrUnknownRole, role)
}

func (s *roleService) Deactivate(ctx context.Context, actor Actor, role models.Role, id int) error {
	userID, sportID, err := s.owner(ctx, role, id)
	if err != nil {
		return err
	}
	if !actor.IsStaff && actor.UserID != userID {
		return ErrForbiddenOperation
	}
	if err := s.roleRepo.SetActive(ctx, role, id, false); err != nil {
		return mapRoleError(err)
	}
	s.logger.InfoContext(ctx, "role record deactivated",
		slog.String("role", string(role)),
		slog.Int("id", id),
		slog.Int("user_id", userID))
	s.refresh(ctx, userID, sportID)
	return nil
}
