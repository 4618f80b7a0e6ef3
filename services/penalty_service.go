package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/utils"
)

var (
	ErrPenaltyTypeInvalid   = errors.New("penalty type name, code and a positive duration are required")
	ErrPenaltyTeamNotInGame = errors.New("penalized team does not play in this game")
	ErrPenaltyPlayerInvalid = errors.New("penalized player is not on the team's game roster")
	ErrPenaltyTimeInvalid   = errors.New("penalty time must fall within the period")
	ErrPenaltyGameClosed    = errors.New("penalties can only be recorded for games in progress or completed")
)

type PenaltyService interface {
	CreateType(ctx context.Context, input PenaltyTypeInput) (*models.PenaltyType, error)
	ListTypes(ctx context.Context, sportID int) ([]models.PenaltyType, error)
	DeleteType(ctx context.Context, id int) error

	Record(ctx context.Context, actor Actor, gameID int, input PenaltyInput) (*models.Penalty, error)
	ListByGame(ctx context.Context, gameID int) ([]models.Penalty, error)
	Delete(ctx context.Context, actor Actor, gameID, id int) error
}

type PenaltyTypeInput struct {
	SportID  int    `json:"sport_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=255"`
	Code     string `json:"code" validate:"required,max=16"`
	Duration int    `json:"duration" validate:"required,min=1,max=60"`
}

// PenaltyInput records a penalty. TimeInPeriod is the elapsed seconds of the period.
type PenaltyInput struct {
	PeriodID     int `json:"period_id" validate:"required,gt=0"`
	TeamID       int `json:"team_id" validate:"required,gt=0"`
	PlayerID     int `json:"player_id" validate:"required,gt=0"`
	TypeID       int `json:"type_id" validate:"required,gt=0"`
	Duration     int `json:"duration" validate:"omitempty,min=1,max=60"`
	TimeInPeriod int `json:"time_in_period" validate:"min=0"`
}

type penaltyService struct {
	penaltyRepo repositories.PenaltyRepository
	gameRepo    repositories.GameRepository
	permissions *Permissions
	publisher   GameEventPublisher
	logger      *slog.Logger
}

func NewPenaltyService(
	penaltyRepo repositories.PenaltyRepository,
	gameRepo repositories.GameRepository,
	permissions *Permissions,
	publisher GameEventPublisher,
	logger *slog.Logger,
) PenaltyService {
	return &penaltyService{
		penaltyRepo: penaltyRepo,
		gameRepo:    gameRepo,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

func mapPenaltyError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPenaltyTypeNotFound):
		return ErrPenaltyTypeNotFound
	case errors.Is(err, repositories.ErrPenaltyTypeCodeConflict):
		return ErrPenaltyTypeConflict
	case errors.Is(err, repositories.ErrPenaltyTypeInUse):
		return ErrInUse
	case errors.Is(err, repositories.ErrSportNotFound):
		return ErrSportNotFound
	case errors.Is(err, repositories.ErrPenaltyNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrPenaltyReferenceInvalid):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func (s *penaltyService) CreateType(ctx context.Context, input PenaltyTypeInput) (*models.PenaltyType, error) {
	pt := &models.PenaltyType{
		SportID:  input.SportID,
		Name:     utils.TitleName(input.Name),
		Code:     strings.ToUpper(strings.TrimSpace(input.Code)),
		Duration: input.Duration,
	}
	if pt.Name == "" || pt.Code == "" || pt.Duration <= 0 {
		return nil, ErrPenaltyTypeInvalid
	}
	if err := s.penaltyRepo.CreateType(ctx, pt); err != nil {
		if mapped := mapPenaltyError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create penalty type: %w", err)
	}
	return pt, nil
}

func (s *penaltyService) ListTypes(ctx context.Context, sportID int) ([]models.PenaltyType, error) {
	return s.penaltyRepo.ListTypes(ctx, sportID)
}

func (s *penaltyService) DeleteType(ctx context.Context, id int) error {
	return mapPenaltyError(s.penaltyRepo.DeleteType(ctx, id))
}

func (s *penaltyService) Record(ctx context.Context, actor Actor, gameID int, input PenaltyInput) (*models.Penalty, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapGameError(err)
	}
	if err := s.permissions.CanScoreGame(ctx, actor, game); err != nil {
		return nil, err
	}
	if game.Status != models.GameInProgress && game.Status != models.GameCompleted {
		return nil, ErrPenaltyGameClosed
	}

	period, err := s.gameRepo.GetPeriod(ctx, input.PeriodID)
	if err != nil {
		return nil, mapGameError(err)
	}
	if period.GameID != gameID {
		return nil, ErrPeriodNotInGame
	}
	if input.TimeInPeriod < 0 || input.TimeInPeriod > period.Duration*60 {
		return nil, ErrPenaltyTimeInvalid
	}

	side, ok := game.SideOf(input.TeamID)
	if !ok {
		return nil, ErrPenaltyTeamNotInGame
	}
	if game.Kind == models.GameKindHockey {
		home, away, err := s.gameRepo.GetRoster(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("failed to load game roster: %w", err)
		}
		roster := home
		if side == models.SideAway {
			roster = away
		}
		if !containsInt(roster, input.PlayerID) {
			return nil, ErrPenaltyPlayerInvalid
		}
	}

	pt, err := s.penaltyRepo.GetType(ctx, input.TypeID)
	if err != nil {
		return nil, mapPenaltyError(err)
	}
	duration := input.Duration
	if duration == 0 {
		duration = pt.Duration
	}

	createdBy := actor.UserID
	penalty := &models.Penalty{
		GameID:       gameID,
		PeriodID:     period.ID,
		TeamID:       input.TeamID,
		PlayerID:     input.PlayerID,
		TypeID:       pt.ID,
		Duration:     duration,
		TimeInPeriod: input.TimeInPeriod,
		CreatedBy:    &createdBy,
		Type:         pt,
	}
	if err := s.penaltyRepo.Create(ctx, penalty); err != nil {
		if mapped := mapPenaltyError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to record penalty: %w", err)
	}

	s.logger.InfoContext(ctx, "penalty recorded",
		slog.Int("game_id", gameID),
		slog.Int("player_id", penalty.PlayerID),
		slog.String("code", pt.Code))
	if s.publisher != nil {
		s.publisher.PublishGameEvent(gameID, live.EventPenaltyAdded, penalty)
	}
	return penalty, nil
}

func (s *penaltyService) ListByGame(ctx context.Context, gameID int) ([]models.Penalty, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		return nil, mapGameError(err)
	}
	return s.penaltyRepo.ListByGame(ctx, gameID)
}

func (s *penaltyService) Delete(ctx context.Context, actor Actor, gameID, id int) error {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return mapGameError(err)
	}
	if err := s.permissions.CanScoreGame(ctx, actor, game); err != nil {
		return err
	}
	return mapPenaltyError(s.penaltyRepo.Delete(ctx, id))
}
