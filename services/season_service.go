package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSeasonDatesInvalid  = errors.New("season end date must be after start date")
	ErrSeasonTeamNotLeague = errors.New("every season team must belong to a division of the season's league")
)

// seasonCopyWorkers bounds how many seasons are copied concurrently.
const seasonCopyWorkers = 4

type SeasonService interface {
	Create(ctx context.Context, input SeasonInput) (*models.Season, error)
	Get(ctx context.Context, id int) (*models.Season, error)
	List(ctx context.Context, leagueID int) ([]models.Season, error)
	Update(ctx context.Context, id int, input SeasonInput) (*models.Season, error)
	Delete(ctx context.Context, id int) error
	// CopyExpiring copies every season ending within window of now one year forward.
	// Seasons whose copy already exists are skipped.
	CopyExpiring(ctx context.Context, now time.Time, window time.Duration) (*SeasonCopyResult, error)
}

type SeasonInput struct {
	LeagueID  int    `json:"league_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	TeamIDs   []int  `json:"team_ids"`
}

type SeasonCopyResult struct {
	Created []models.Season `json:"created"`
	Skipped []int           `json:"skipped"`
}

type seasonService struct {
	seasonRepo repositories.SeasonRepository
	teamRepo   repositories.TeamRepository
	tx         repositories.Transactor
	logger     *slog.Logger
}

func NewSeasonService(
	seasonRepo repositories.SeasonRepository,
	teamRepo repositories.TeamRepository,
	tx repositories.Transactor,
	logger *slog.Logger,
) SeasonService {
	return &seasonService{
		seasonRepo: seasonRepo,
		teamRepo:   teamRepo,
		tx:         tx,
		logger:     logger,
	}
}

func mapSeasonError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrSeasonNotFound):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrSeasonConflict):
		return ErrSeasonConflict
	case errors.Is(err, repositories.ErrSeasonDatesInvalid):
		return ErrSeasonDatesInvalid
	case errors.Is(err, repositories.ErrSeasonLeagueInvalid):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrSeasonTeamInvalid):
		return ErrTeamNotFound
	}
	return err
}

func (s *seasonService) buildSeason(ctx context.Context, input SeasonInput) (*models.Season, error) {
	start, err := parseDate("start_date", input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", input.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrSeasonDatesInvalid
	}

	teamIDs := uniqueInts(input.TeamIDs)
	if len(teamIDs) > 0 {
		leagueTeams, err := s.teamRepo.List(ctx, repositories.TeamFilter{LeagueID: input.LeagueID})
		if err != nil {
			return nil, fmt.Errorf("failed to list league teams: %w", err)
		}
		known := make([]int, len(leagueTeams))
		for i, t := range leagueTeams {
			known[i] = t.ID
		}
		for _, id := range teamIDs {
			if !containsInt(known, id) {
				return nil, fmt.Errorf("%w: team %d", ErrSeasonTeamNotLeague, id)
			}
		}
	}

	return &models.Season{
		LeagueID:  input.LeagueID,
		StartDate: start,
		EndDate:   end,
		TeamIDs:   teamIDs,
	}, nil
}

func (s *seasonService) Create(ctx context.Context, input SeasonInput) (*models.Season, error) {
	season, err := s.buildSeason(ctx, input)
	if err != nil {
		return nil, err
	}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.seasonRepo.Create(ctx, exec, season)
	})
	if err != nil {
		if mapped := mapSeasonError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	return season, nil
}

func (s *seasonService) Get(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapSeasonError(err)
	}
	return season, nil
}

func (s *seasonService) List(ctx context.Context, leagueID int) ([]models.Season, error) {
	return s.seasonRepo.List(ctx, leagueID)
}

func (s *seasonService) Update(ctx context.Context, id int, input SeasonInput) (*models.Season, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	season, err := s.buildSeason(ctx, input)
	if err != nil {
		return nil, err
	}
	season.ID = id
	season.CreatedAt = current.CreatedAt
	season.ExpirationReminderSent = current.ExpirationReminderSent
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.seasonRepo.Update(ctx, exec, season)
	})
	if err != nil {
		return nil, mapSeasonError(err)
	}
	return season, nil
}

func (s *seasonService) Delete(ctx context.Context, id int) error {
	return mapSeasonError(s.seasonRepo.Delete(ctx, id))
}

func (s *seasonService) CopyExpiring(ctx context.Context, now time.Time, window time.Duration) (*SeasonCopyResult, error) {
	expiring, err := s.seasonRepo.ListEndingBetween(ctx, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring seasons: %w", err)
	}

	result := &SeasonCopyResult{Created: []models.Season{}, Skipped: []int{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seasonCopyWorkers)
	for _, season := range expiring {
		g.Go(func() error {
			copied, err := s.copySeason(gctx, season)
			if err != nil {
				return fmt.Errorf("failed to copy season %d: %w", season.ID, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if copied == nil {
				result.Skipped = append(result.Skipped, season.ID)
				return nil
			}
			result.Created = append(result.Created, *copied)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "expiring seasons copied",
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}

// copySeason returns nil when the next-year season already exists.
func (s *seasonService) copySeason(ctx context.Context, season models.Season) (*models.Season, error) {
	start, end := season.NextYear()
	exists, err := s.seasonRepo.Exists(ctx, season.LeagueID, start, end)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.DebugContext(ctx, "season copy already exists", slog.Int("season_id", season.ID))
		return nil, nil
	}

	next := &models.Season{
		LeagueID:  season.LeagueID,
		StartDate: start,
		EndDate:   end,
		TeamIDs:   append([]int(nil), season.TeamIDs...),
	}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.seasonRepo.Create(ctx, exec, next)
	})
	if errors.Is(err, repositories.ErrSeasonConflict) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "season copied",
		slog.Int("season_id", season.ID),
		slog.Int("new_season_id", next.ID),
		slog.String("label", next.Label()))
	return next, nil
}
