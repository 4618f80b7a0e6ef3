package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/utils"
)

var (
	ErrSportNameRequired = errors.New("sport name is required")
	ErrSportNameConflict = errors.New("sport name already exists")
	ErrSportNotFound     = errors.New("sport not found")
	ErrSportInUse        = errors.New("sport cannot be deleted as it is currently in use")
)

type SportService interface {
	CreateSport(ctx context.Context, input SportInput) (*models.Sport, error)
	GetSportByID(ctx context.Context, id int) (*models.Sport, error)
	GetAllSports(ctx context.Context) ([]models.Sport, error)
	UpdateSport(ctx context.Context, id int, input SportInput) (*models.Sport, error)
	DeleteSport(ctx context.Context, id int) error
	// SeedSports inserts the sports that do not exist yet and returns how many were created.
	SeedSports(ctx context.Context, sports []models.Sport) (int, error)
}

type SportInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type sportService struct {
	sportRepo repositories.SportRepository
	logger    *slog.Logger
}

func NewSportService(sportRepo repositories.SportRepository, logger *slog.Logger) SportService {
	return &sportService{
		sportRepo: sportRepo,
		logger:    logger,
	}
}

func (s *sportService) CreateSport(ctx context.Context, input SportInput) (*models.Sport, error) {
	name := utils.TitleName(input.Name)
	if name == "" {
		return nil, ErrSportNameRequired
	}

	sport := &models.Sport{
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.sportRepo.Create(ctx, sport); err != nil {
		if errors.Is(err, repositories.ErrSportNameConflict) {
			return nil, ErrSportNameConflict
		}
		return nil, fmt.Errorf("failed to create sport: %w", err)
	}
	return sport, nil
}

func (s *sportService) GetSportByID(ctx context.Context, id int) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to get sport by id %d: %w", id, err)
	}
	return sport, nil
}

func (s *sportService) GetAllSports(ctx context.Context) ([]models.Sport, error) {
	sports, err := s.sportRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sports: %w", err)
	}
	if sports == nil {
		return []models.Sport{}, nil
	}
	return sports, nil
}

func (s *sportService) UpdateSport(ctx context.Context, id int, input SportInput) (*models.Sport, error) {
	name := utils.TitleName(input.Name)
	if name == "" {
		return nil, ErrSportNameRequired
	}

	sport := &models.Sport{
		ID:          id,
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.sportRepo.Update(ctx, sport); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSportNotFound):
			return nil, ErrSportNotFound
		case errors.Is(err, repositories.ErrSportNameConflict):
			return nil, ErrSportNameConflict
		default:
			return nil, fmt.Errorf("failed to update sport %d: %w", id, err)
		}
	}
	return sport, nil
}

func (s *sportService) DeleteSport(ctx context.Context, id int) error {
	if err := s.sportRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSportNotFound):
			return ErrSportNotFound
		case errors.Is(err, repositories.ErrSportInUse):
			return ErrSportInUse
		default:
			return fmt.Errorf("failed to delete sport %d: %w", id, err)
		}
	}
	return nil
}

func (s *sportService) SeedSports(ctx context.Context, sports []models.Sport) (int, error) {
	created := 0
	for _, sport := range sports {
		sport.Name = utils.TitleName(sport.Name)
		if sport.Name == "" {
			return created, ErrSportNameRequired
		}
		if sport.Slug == "" {
			sport.Slug = utils.Slugify(sport.Name)
		}
		inserted, err := s.sportRepo.EnsureExists(ctx, &sport)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
			s.logger.InfoContext(ctx, "sport seeded", slog.String("name", sport.Name), slog.Int("sport_id", sport.ID))
		}
	}
	return created, nil
}
