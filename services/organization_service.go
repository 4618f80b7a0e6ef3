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

var ErrOrganizationNameRequired = errors.New("organization name is required")

type OrganizationService interface {
	Create(ctx context.Context, actor Actor, input OrganizationInput) (*models.Organization, error)
	Get(ctx context.Context, id int) (*models.Organization, error)
	List(ctx context.Context, sportID int) ([]models.Organization, error)
	Update(ctx context.Context, actor Actor, id int, input OrganizationInput) (*models.Organization, error)
	UploadLogo(ctx context.Context, actor Actor, id int, contentType string, file io.Reader) (*models.Organization, error)
}

type OrganizationInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	SportID int    `json:"sport_id" validate:"required,gt=0"`
}

type organizationService struct {
	orgRepo  repositories.OrganizationRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewOrganizationService(orgRepo repositories.OrganizationRepository, uploader storage.FileUploader, logger *slog.Logger) OrganizationService {
	return &organizationService{orgRepo: orgRepo, uploader: uploader, logger: logger}
}

func mapOrganizationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrganizationNotFound):
		return ErrOrganizationNotFound
	case errors.Is(err, repositories.ErrOrganizationNameConflict):
		return ErrOrganizationConflict
	case errors.Is(err, repositories.ErrOrganizationSportInvalid):
		return ErrSportNotFound
	}
	return err
}

// canEditOrganization allows staff and the user who created the organization.
func canEditOrganization(actor Actor, org *models.Organization) error {
	if actor.IsStaff || (org.CreatedBy != nil && *org.CreatedBy == actor.UserID) {
		return nil
	}
	return ErrForbiddenOperation
}

func (s *organizationService) Create(ctx context.Context, actor Actor, input OrganizationInput) (*models.Organization, error) {
	name := utils.TitleName(input.Name)
	if name == "" {
		return nil, ErrOrganizationNameRequired
	}
	createdBy := actor.UserID
	org := &models.Organization{
		Name:      name,
		Slug:      utils.Slugify(name),
		SportID:   input.SportID,
		CreatedBy: &createdBy,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		if mapped := mapOrganizationError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Get(ctx context.Context, id int) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapOrganizationError(err)
	}
	org.LogoURL = logoURL(org.LogoKey, s.uploader)
	return org, nil
}

func (s *organizationService) List(ctx context.Context, sportID int) ([]models.Organization, error) {
	orgs, err := s.orgRepo.List(ctx, sportID)
	if err != nil {
		return nil, err
	}
	for i := range orgs {
		orgs[i].LogoURL = logoURL(orgs[i].LogoKey, s.uploader)
	}
	return orgs, nil
}

func (s *organizationService) Update(ctx context.Context, actor Actor, id int, input OrganizationInput) (*models.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canEditOrganization(actor, org); err != nil {
		return nil, err
	}
	name := utils.TitleName(input.Name)
	if name == "" {
		return nil, ErrOrganizationNameRequired
	}
	org.Name = name
	org.Slug = utils.Slugify(name)
	org.SportID = input.SportID
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, mapOrganizationError(err)
	}
	return org, nil
}

func (s *organizationService) UploadLogo(ctx context.Context, actor Actor, id int, contentType string, file io.Reader) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapOrganizationError(err)
	}
	if err := canEditOrganization(actor, org); err != nil {
		return nil, err
	}
	key, err := replaceLogo(ctx, s.uploader, s.logger, "organizations", id, org.LogoKey, contentType, file,
		func(key *string) error { return mapOrganizationError(s.orgRepo.SetLogo(ctx, id, key)) })
	if err != nil {
		return nil, err
	}
	org.LogoKey = &key
	org.LogoURL = logoURL(org.LogoKey, s.uploader)
	return org, nil
}
