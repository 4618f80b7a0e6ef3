package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"github.com/Dosada05/league-system/utils"
)

var (
	ErrLeagueNameRequired   = errors.New("league full name is required")
	ErrDivisionNameRequired = errors.New("division name is required")
)

type LeagueService interface {
	CreateLeague(ctx context.Context, input LeagueInput) (*models.League, error)
	GetLeague(ctx context.Context, id int) (*models.League, error)
	ListLeagues(ctx context.Context, sportID int) ([]models.League, error)
	UpdateLeague(ctx context.Context, id int, input LeagueInput) (*models.League, error)
	DeleteLeague(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.League, error)

	CreateDivision(ctx context.Context, leagueID int, input DivisionInput) (*models.Division, error)
	ListDivisions(ctx context.Context, leagueID int) ([]models.Division, error)
	DeleteDivision(ctx context.Context, id int) error
}

// LeagueInput describes a league. An empty Name is replaced by the abbreviation of FullName.
type LeagueInput struct {
	Name     string `json:"name" validate:"max=32"`
	FullName string `json:"full_name" validate:"required,max=255"`
	SportID  int    `json:"sport_id" validate:"required,gt=0"`
}

type DivisionInput struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewLeagueService(leagueRepo repositories.LeagueRepository, uploader storage.FileUploader, logger *slog.Logger) LeagueService {
	return &leagueService{
		leagueRepo: leagueRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func mapLeagueError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrLeagueNameConflict):
		return ErrLeagueNameConflict
	case errors.Is(err, repositories.ErrLeagueSportInvalid):
		return ErrSportNotFound
	case errors.Is(err, repositories.ErrDivisionNotFound):
		return ErrDivisionNotFound
	case errors.Is(err, repositories.ErrDivisionNameConflict):
		return ErrDivisionNameConflict
	case errors.Is(err, repositories.ErrDivisionLeagueInvalid):
		return ErrLeagueNotFound
	}
	return err
}

func (s *leagueService) buildLeague(input LeagueInput) (*models.League, error) {
	// Casing is kept so the abbreviation only picks up words the user capitalized.
	fullName := utils.CollapseSpaces(input.FullName)
	if fullName == "" {
		return nil, ErrLeagueNameRequired
	}
	league := &models.League{
		Name:     utils.CollapseSpaces(input.Name),
		FullName: fullName,
		Slug:     utils.Slugify(fullName),
		SportID:  input.SportID,
	}
	if league.Name == "" {
		league.Name = models.AbbreviateName(fullName)
	}
	return league, nil
}

func (s *leagueService) populate(league *models.League) {
	league.LogoURL = logoURL(league.LogoKey, s.uploader)
}

func (s *leagueService) CreateLeague(ctx context.Context, input LeagueInput) (*models.League, error) {
	league, err := s.buildLeague(input)
	if err != nil {
		return nil, err
	}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		if mapped := mapLeagueError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	return league, nil
}

func (s *leagueService) GetLeague(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLeagueError(err)
	}
	s.populate(league)
	return league, nil
}

func (s *leagueService) ListLeagues(ctx context.Context, sportID int) ([]models.League, error) {
	leagues, err := s.leagueRepo.List(ctx, sportID)
	if err != nil {
		return nil, err
	}
	for i := range leagues {
		s.populate(&leagues[i])
	}
	return leagues, nil
}

func (s *leagueService) UpdateLeague(ctx context.Context, id int, input LeagueInput) (*models.League, error) {
	league, err := s.buildLeague(input)
	if err != nil {
		return nil, err
	}
	league.ID = id
	if err := s.leagueRepo.Update(ctx, league); err != nil {
		return nil, mapLeagueError(err)
	}
	return s.GetLeague(ctx, id)
}

func (s *leagueService) DeleteLeague(ctx context.Context, id int) error {
	return mapLeagueError(s.leagueRepo.Delete(ctx, id))
}

func (s *leagueService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLeagueError(err)
	}
	key, err := replaceLogo(ctx, s.uploader, s.logger, "leagues", id, league.LogoKey, contentType, file,
		func(key *string) error { return mapLeagueError(s.leagueRepo.SetLogo(ctx, id, key)) })
	if err != nil {
		return nil, err
	}
	league.LogoKey = &key
	s.populate(league)
	return league, nil
}

func (s *leagueService) CreateDivision(ctx context.Context, leagueID int, input DivisionInput) (*models.Division, error) {
	name := utils.TitleName(input.Name)
	if name == "" {
		return nil, ErrDivisionNameRequired
	}
	division := &models.Division{Name: name, Slug: utils.Slugify(name), LeagueID: leagueID}
	if err := s.leagueRepo.CreateDivision(ctx, division); err != nil {
		if mapped := mapLeagueError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create division: %w", err)
	}
	return division, nil
}

func (s *leagueService) ListDivisions(ctx context.Context, leagueID int) ([]models.Division, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapLeagueError(err)
	}
	return s.leagueRepo.ListDivisions(ctx, leagueID)
}

func (s *leagueService) DeleteDivision(ctx context.Context, id int) error {
	return mapLeagueError(s.leagueRepo.DeleteDivision(ctx, id))
}
