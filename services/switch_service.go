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

var ErrSwitchNameRequired = errors.New("feature switch name is required")

type SwitchService interface {
	// IsActive reports false for unknown switches and on lookup failures.
	IsActive(ctx context.Context, name string) bool
	List(ctx context.Context) ([]models.FeatureSwitch, error)
	Set(ctx context.Context, name string, active bool) (*models.FeatureSwitch, error)
	// Seed creates the switches that do not exist yet. With overwrite, existing
	// switches take the seeded state.
	Seed(ctx context.Context, switches []models.FeatureSwitch, overwrite bool) (int, error)
}

type switchService struct {
	switchRepo repositories.SwitchRepository
	logger     *slog.Logger
}

func NewSwitchService(switchRepo repositories.SwitchRepository, logger *slog.Logger) SwitchService {
	return &switchService{switchRepo: switchRepo, logger: logger}
}

func (s *switchService) IsActive(ctx context.Context, name string) bool {
	sw, err := s.switchRepo.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, repositories.ErrSwitchNotFound) {
			s.logger.WarnContext(ctx, "failed to read feature switch", slog.String("name", name), slog.Any("error", err))
		}
		return false
	}
	return sw.Active
}

func (s *switchService) List(ctx context.Context) ([]models.FeatureSwitch, error) {
	return s.switchRepo.List(ctx)
}

func (s *switchService) Set(ctx context.Context, name string, active bool) (*models.FeatureSwitch, error) {
	if err := s.switchRepo.SetActive(ctx, name, active); err != nil {
		if errors.Is(err, repositories.ErrSwitchNotFound) {
			return nil, ErrSwitchNotFound
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "feature switch changed", slog.String("name", name), slog.Bool("active", active))
	return s.switchRepo.Get(ctx, name)
}

func (s *switchService) Seed(ctx context.Context, switches []models.FeatureSwitch, overwrite bool) (int, error) {
	created := 0
	for i := range switches {
		sw := switches[i]
		sw.Name = strings.TrimSpace(sw.Name)
		if sw.Name == "" {
			return created, ErrSwitchNameRequired
		}
		ok, err := s.switchRepo.Upsert(ctx, &sw, overwrite)
		if err != nil {
			return created, fmt.Errorf("failed to seed switch %q: %w", sw.Name, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}
