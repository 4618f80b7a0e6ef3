package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/utils"
)

var ErrLocationNameRequired = errors.New("location name is required")

type LocationService interface {
	Create(ctx context.Context, input LocationInput) (*models.Location, error)
	Get(ctx context.Context, id int) (*models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
	Update(ctx context.Context, id int, input LocationInput) (*models.Location, error)
	Delete(ctx context.Context, id int) error
}

type LocationInput struct {
	Name            string `json:"name" validate:"required,max=255"`
	StreetNumber    string `json:"street_number" validate:"max=32"`
	Street          string `json:"street" validate:"max=255"`
	City            string `json:"city" validate:"max=255"`
	Region          string `json:"region" validate:"max=64"`
	PostalCode      string `json:"postal_code" validate:"max=16"`
	PhoneNumber     string `json:"phone_number" validate:"max=32"`
	Website         string `json:"website" validate:"omitempty,url,max=255"`
	GoogleEmbedCode string `json:"google_embed_code"`
}

type locationService struct {
	locationRepo repositories.LocationRepository
}

func NewLocationService(locationRepo repositories.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func mapLocationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrLocationNotFound):
		return ErrLocationNotFound
	case errors.Is(err, repositories.ErrLocationNameConflict):
		return ErrLocationNameConflict
	case errors.Is(err, repositories.ErrLocationInUse):
		return ErrInUse
	}
	return err
}

// buildLocation normalizes a location the same way for the API and CSV uploads.
func buildLocation(input LocationInput) (*models.Location, error) {
	name := utils.TitleName(input.Name)
	if name == "" {
		return nil, ErrLocationNameRequired
	}
	return &models.Location{
		Name:            name,
		Slug:            utils.Slugify(name),
		StreetNumber:    strings.TrimSpace(input.StreetNumber),
		Street:          utils.TitleName(input.Street),
		City:            utils.TitleName(input.City),
		Region:          strings.TrimSpace(input.Region),
		PostalCode:      strings.TrimSpace(input.PostalCode),
		PhoneNumber:     strings.TrimSpace(input.PhoneNumber),
		Website:         strings.TrimSpace(input.Website),
		GoogleEmbedCode: strings.TrimSpace(input.GoogleEmbedCode),
	}, nil
}

func (s *locationService) Create(ctx context.Context, input LocationInput) (*models.Location, error) {
	location, err := buildLocation(input)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Create(ctx, nil, location); err != nil {
		if mapped := mapLocationError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

func (s *locationService) Get(ctx context.Context, id int) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLocationError(err)
	}
	return location, nil
}

func (s *locationService) List(ctx context.Context) ([]models.Location, error) {
	return s.locationRepo.List(ctx)
}

func (s *locationService) Update(ctx context.Context, id int, input LocationInput) (*models.Location, error) {
	location, err := buildLocation(input)
	if err != nil {
		return nil, err
	}
	location.ID = id
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, mapLocationError(err)
	}
	return location, nil
}

func (s *locationService) Delete(ctx context.Context, id int) error {
	return mapLocationError(s.locationRepo.Delete(ctx, id))
}
