package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

var (
	ErrGameSameTeams         = errors.New("home and away teams must differ")
	ErrGameTimesInvalid      = errors.New("game end must be after its start")
	ErrGameTeamNotInSeason   = errors.New("both teams must play in the game's season")
	ErrGameKindInvalid       = errors.New("game kind must be hockey or generic")
	ErrGameStatusInvalid     = errors.New("unknown game status")
	ErrGameTransition        = errors.New("game status change is not allowed")
	ErrGameNotInProgress     = errors.New("game is not in progress")
	ErrRosterNotSupported    = errors.New("only hockey games carry rosters")
	ErrSideInvalid           = errors.New("side must be home or away")
	ErrStartingGoalieMissing = errors.New("a starting goaltender is required")
	ErrStartingGoalieInvalid = errors.New("the starting goaltender must be a goaltender on the roster")
	ErrGamePlayerInvalid     = errors.New("game roster players must be active players of the team")
	ErrPeriodNotInGame       = errors.New("period does not belong to this game")
)

const (
	defaultRegulationPeriods = 3
	defaultPeriodMinutes     = 20
)

// GameEventPublisher pushes game changes to live subscribers.
type GameEventPublisher interface {
	PublishGameEvent(gameID int, eventType string, payload interface{})
}

type GameService interface {
	Create(ctx context.Context, actor Actor, input GameInput) (*models.Game, error)
	// Get loads the game with its teams, location, periods, roster and penalties.
	Get(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, filter repositories.GameFilter) ([]models.Game, error)
	UpdateStatus(ctx context.Context, actor Actor, id int, status string) (*models.Game, error)
	SetRoster(ctx context.Context, actor Actor, id int, input GameRosterInput) (*models.Game, error)
	FinishPeriod(ctx context.Context, actor Actor, gameID, periodID int) (*models.Period, error)
	Delete(ctx context.Context, actor Actor, id int) error
}

type GameInput struct {
	Kind           string    `json:"kind" validate:"omitempty,oneof=hockey generic"`
	SeasonID       int       `json:"season_id" validate:"required,gt=0"`
	HomeTeamID     int       `json:"home_team_id" validate:"required,gt=0"`
	AwayTeamID     int       `json:"away_team_id" validate:"required,gt=0,nefield=HomeTeamID"`
	TeamID         *int      `json:"team_id"`
	TypeID         int       `json:"type_id" validate:"required,gt=0"`
	PointValueID   int       `json:"point_value_id" validate:"required,gt=0"`
	LocationID     int       `json:"location_id" validate:"required,gt=0"`
	Start          time.Time `json:"start" validate:"required"`
	End            time.Time `json:"end" validate:"required,gtfield=Start"`
	Timezone       string    `json:"timezone" validate:"required"`
	Periods        int       `json:"periods" validate:"omitempty,min=1,max=9"`
	Overtimes      int       `json:"overtimes" validate:"omitempty,min=0,max=5"`
	PeriodDuration int       `json:"period_duration" validate:"omitempty,min=1,max=60"`
}

type GameRosterInput struct {
	Side             string `json:"side" validate:"required,oneof=home away"`
	PlayerIDs        []int  `json:"player_ids" validate:"required,min=1"`
	StartingGoalieID *int   `json:"starting_goalie_id"`
}

type gameService struct {
	gameRepo     repositories.GameRepository
	seasonRepo   repositories.SeasonRepository
	teamRepo     repositories.TeamRepository
	locationRepo repositories.LocationRepository
	roleRepo     repositories.RoleRepository
	penaltyRepo  repositories.PenaltyRepository
	choices      ChoiceService
	permissions  *Permissions
	tx           repositories.Transactor
	publisher    GameEventPublisher
	logger       *slog.Logger
}

func NewGameService(
	gameRepo repositories.GameRepository,
	seasonRepo repositories.SeasonRepository,
	teamRepo repositories.TeamRepository,
	locationRepo repositories.LocationRepository,
	roleRepo repositories.RoleRepository,
	penaltyRepo repositories.PenaltyRepository,
	choices ChoiceService,
	permissions *Permissions,
	tx repositories.Transactor,
	publisher GameEventPublisher,
	logger *slog.Logger,
) GameService {
	return &gameService{
		gameRepo:     gameRepo,
		seasonRepo:   seasonRepo,
		teamRepo:     teamRepo,
		locationRepo: locationRepo,
		roleRepo:     roleRepo,
		penaltyRepo:  penaltyRepo,
		choices:      choices,
		permissions:  permissions,
		tx:           tx,
		publisher:    publisher,
		logger:       logger,
	}
}

func mapGameError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrGameInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	case errors.Is(err, repositories.ErrGameReferenceInvalid):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repositories.ErrPeriodNotFound):
		return ErrPeriodNotFound
	case errors.Is(err, repositories.ErrPeriodInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return err
}

func (s *gameService) publish(gameID int, eventType string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.PublishGameEvent(gameID, eventType, payload)
	}
}

func (s *gameService) Create(ctx context.Context, actor Actor, input GameInput) (*models.Game, error) {
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrGameSameTeams
	}
	if !input.End.After(input.Start) {
		return nil, ErrGameTimesInvalid
	}
	kind := models.GameKind(input.Kind)
	if kind == "" {
		kind = models.GameKindHockey
	}
	if !kind.Valid() {
		return nil, ErrGameKindInvalid
	}
	if _, err := time.LoadLocation(input.Timezone); err != nil {
		return nil, ErrInvalidTimezone
	}
	if !actor.IsStaff {
		if err := s.permissions.CanManageTeam(ctx, actor, input.HomeTeamID); err != nil {
			if err := s.permissions.CanManageTeam(ctx, actor, input.AwayTeamID); err != nil {
				return nil, err
			}
		}
	}

	season, err := s.seasonRepo.GetByID(ctx, input.SeasonID)
	if err != nil {
		return nil, mapSeasonError(err)
	}
	if !containsInt(season.TeamIDs, input.HomeTeamID) || !containsInt(season.TeamIDs, input.AwayTeamID) {
		return nil, ErrGameTeamNotInSeason
	}
	if _, err := s.choices.Require(ctx, input.TypeID, models.ChoiceGameType); err != nil {
		return nil, err
	}
	if _, err := s.choices.Require(ctx, input.PointValueID, models.ChoiceGamePointValue); err != nil {
		return nil, err
	}
	if _, err := s.locationRepo.GetByID(ctx, input.LocationID); err != nil {
		return nil, mapLocationError(err)
	}

	createdBy := actor.UserID
	game := &models.Game{
		Kind:         kind,
		SeasonID:     input.SeasonID,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
		TeamID:       input.TeamID,
		TypeID:       input.TypeID,
		PointValueID: input.PointValueID,
		LocationID:   input.LocationID,
		Start:        input.Start.UTC(),
		End:          input.End.UTC(),
		Timezone:     input.Timezone,
		Status:       models.GameScheduled,
		CreatedBy:    &createdBy,
	}

	regulation := input.Periods
	if regulation == 0 {
		regulation = defaultRegulationPeriods
	}
	duration := input.PeriodDuration
	if duration == 0 {
		duration = defaultPeriodMinutes
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.gameRepo.Create(ctx, exec, game); err != nil {
			return err
		}
		names := models.DefaultPeriodNames(regulation, input.Overtimes)
		periods := make([]models.Period, len(names))
		for i, name := range names {
			periods[i] = models.Period{GameID: game.ID, Name: name, Duration: duration}
		}
		if err := s.gameRepo.CreatePeriods(ctx, exec, periods); err != nil {
			return err
		}
		game.Periods = periods
		return nil
	})
	if err != nil {
		if mapped := mapGameError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.logger.InfoContext(ctx, "game created",
		slog.Int("game_id", game.ID),
		slog.Int("season_id", game.SeasonID),
		slog.Int("periods", len(game.Periods)))
	return game, nil
}

func (s *gameService) Get(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapGameError(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		team, err := s.teamRepo.GetByID(gctx, game.HomeTeamID)
		if err != nil {
			return fmt.Errorf("home team: %w", err)
		}
		game.HomeTeam = team
		return nil
	})
	g.Go(func() error {
		team, err := s.teamRepo.GetByID(gctx, game.AwayTeamID)
		if err != nil {
			return fmt.Errorf("away team: %w", err)
		}
		game.AwayTeam = team
		return nil
	})
	g.Go(func() error {
		location, err := s.locationRepo.GetByID(gctx, game.LocationID)
		if err != nil {
			return fmt.Errorf("location: %w", err)
		}
		game.Location = location
		return nil
	})
	g.Go(func() error {
		periods, err := s.gameRepo.ListPeriods(gctx, game.ID)
		if err != nil {
			return fmt.Errorf("periods: %w", err)
		}
		game.Periods = periods
		return nil
	})
	g.Go(func() error {
		penalties, err := s.penaltyRepo.ListByGame(gctx, game.ID)
		if err != nil {
			return fmt.Errorf("penalties: %w", err)
		}
		game.Penalties = penalties
		return nil
	})
	if game.Kind == models.GameKindHockey {
		g.Go(func() error {
			home, away, err := s.gameRepo.GetRoster(gctx, game.ID)
			if err != nil {
				return fmt.Errorf("roster: %w", err)
			}
			game.HomePlayerIDs, game.AwayPlayerIDs = home, away
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", id, err)
	}
	return game, nil
}

func (s *gameService) List(ctx context.Context, filter repositories.GameFilter) ([]models.Game, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrGameStatusInvalid
	}
	return s.gameRepo.List(ctx, filter)
}

func (s *gameService) UpdateStatus(ctx context.Context, actor Actor, id int, status string) (*models.Game, error) {
	next := models.GameStatus(status)
	if !next.Valid() {
		return nil, ErrGameStatusInvalid
	}
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapGameError(err)
	}
	if err := s.permissions.CanScoreGame(ctx, actor, game); err != nil {
		return nil, err
	}
	if !game.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrGameTransition, game.Status, next)
	}
	if game.Status == next {
		return game, nil
	}
	if err := s.gameRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, mapGameError(err)
	}
	previous := game.Status
	game.Status = next

	s.logger.InfoContext(ctx, "game status changed",
		slog.Int("game_id", id),
		slog.String("from", string(previous)),
		slog.String("to", string(next)))
	s.publish(id, live.EventGameStatus, map[string]interface{}{
		"game_id": id,
		"from":    previous,
		"to":      next,
	})
	return game, nil
}

func (s *gameService) SetRoster(ctx context.Context, actor Actor, id int, input GameRosterInput) (*models.Game, error) {
	side := models.Side(input.Side)
	if !side.Valid() {
		return nil, ErrSideInvalid
	}
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapGameError(err)
	}
	if game.Kind != models.GameKindHockey {
		return nil, ErrRosterNotSupported
	}
	teamID := game.TeamFor(side)
	if err := s.permissions.CanManageTeam(ctx, actor, teamID); err != nil {
		return nil, err
	}
	if input.StartingGoalieID == nil {
		return nil, ErrStartingGoalieMissing
	}

	playerIDs := uniqueInts(input.PlayerIDs)
	if !containsInt(playerIDs, *input.StartingGoalieID) {
		return nil, ErrStartingGoalieInvalid
	}
	players, err := s.roleRepo.ListPlayersByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load game roster players: %w", err)
	}
	if len(players) != len(playerIDs) {
		return nil, ErrGamePlayerInvalid
	}
	for _, p := range players {
		if p.TeamID != teamID || !p.IsActive {
			return nil, fmt.Errorf("%w: player %d", ErrGamePlayerInvalid, p.ID)
		}
		if p.ID == *input.StartingGoalieID && !p.IsGoalie() {
			return nil, ErrStartingGoalieInvalid
		}
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.gameRepo.SetRoster(ctx, exec, id, side, playerIDs, input.StartingGoalieID)
	})
	if err != nil {
		if mapped := mapGameError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to set %s roster of game %d: %w", side, id, err)
	}

	if side == models.SideHome {
		game.HomePlayerIDs, game.HomeStartingGoalieID = playerIDs, input.StartingGoalieID
	} else {
		game.AwayPlayerIDs, game.AwayStartingGoalieID = playerIDs, input.StartingGoalieID
	}
	s.publish(id, live.EventRosterUpdated, map[string]interface{}{
		"game_id":            id,
		"side":               side,
		"player_ids":         playerIDs,
		"starting_goalie_id": *input.StartingGoalieID,
	})
	return game, nil
}

func (s *gameService) FinishPeriod(ctx context.Context, actor Actor, gameID, periodID int) (*models.Period, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapGameError(err)
	}
	if err := s.permissions.CanScoreGame(ctx, actor, game); err != nil {
		return nil, err
	}
	if game.Status != models.GameInProgress {
		return nil, ErrGameNotInProgress
	}
	period, err := s.gameRepo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, mapGameError(err)
	}
	if period.GameID != gameID {
		return nil, ErrPeriodNotInGame
	}
	if period.Finished {
		return period, nil
	}
	if err := s.gameRepo.FinishPeriod(ctx, periodID); err != nil {
		return nil, mapGameError(err)
	}
	period.Finished = true
	s.publish(gameID, live.EventPeriodFinished, period)
	return period, nil
}

func (s *gameService) Delete(ctx context.Context, actor Actor, id int) error {
	if err := s.permissions.RequireStaff(actor); err != nil {
		return err
	}
	return mapGameError(s.gameRepo.Delete(ctx, id))
}
