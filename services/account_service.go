package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"golang.org/x/text/language"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidGender   = errors.New("gender must be one of male, female, non-binary")
	ErrInvalidWeight   = errors.New("weight must be between 1 and 400")
	ErrInvalidLanguage = errors.New("language is not a valid language tag")
	ErrInvalidTimezone = errors.New("timezone is not a known IANA time zone")
	ErrInvalidBirthday = errors.New("birthday must be in the past")
	ErrHeightRequired  = errors.New("height is required")
)

type AccountService interface {
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID int, input ProfileInput) (*models.UserProfile, error)
	RegistrationStatus(ctx context.Context, userID int) (*RegistrationStatus, error)
}

type ProfileInput struct {
	Gender   string `json:"gender" validate:"required"`
	Birthday string `json:"birthday" validate:"required"`
	Height   string `json:"height" validate:"required,max=8"`
	Weight   int    `json:"weight" validate:"required"`
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

// RegistrationStatus tells whether a user finished signing up.
type RegistrationStatus struct {
	HasProfile              bool  `json:"has_profile"`
	HasRegistrations        bool  `json:"has_registrations"`
	IncompleteRegistrations []int `json:"incomplete_registrations"`
	Complete                bool  `json:"complete"`
}

type accountService struct {
	userRepo         repositories.UserRepository
	registrationRepo repositories.RegistrationRepository
	defaultLanguage  string
	defaultTimezone  string
	now              func() time.Time
}

func NewAccountService(
	userRepo repositories.UserRepository,
	registrationRepo repositories.RegistrationRepository,
	defaultLanguage, defaultTimezone string,
) AccountService {
	return &accountService{
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		defaultLanguage:  defaultLanguage,
		defaultTimezone:  defaultTimezone,
		now:              time.Now,
	}
}

func (s *accountService) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *accountService) SaveProfile(ctx context.Context, userID int, input ProfileInput) (*models.UserProfile, error) {
	gender := models.Gender(strings.ToLower(strings.TrimSpace(input.Gender)))
	if !gender.Valid() {
		return nil, ErrInvalidGender
	}
	birthday, err := parseDate("birthday", input.Birthday)
	if err != nil {
		return nil, err
	}
	if !birthday.Before(s.now()) {
		return nil, ErrInvalidBirthday
	}
	height := strings.TrimSpace(input.Height)
	if height == "" {
		return nil, ErrHeightRequired
	}
	if input.Weight < 1 || input.Weight > 400 {
		return nil, ErrInvalidWeight
	}

	lang := s.defaultLanguage
	if strings.TrimSpace(input.Language) != "" {
		tag, err := language.Parse(strings.TrimSpace(input.Language))
		if err != nil {
			return nil, ErrInvalidLanguage
		}
		lang = tag.String()
	}
	tz := s.defaultTimezone
	if strings.TrimSpace(input.Timezone) != "" {
		loc, err := time.LoadLocation(strings.TrimSpace(input.Timezone))
		if err != nil {
			return nil, ErrInvalidTimezone
		}
		tz = loc.String()
	}

	profile := &models.UserProfile{
		UserID:   userID,
		Gender:   gender,
		Birthday: birthday,
		Height:   height,
		Weight:   input.Weight,
		Language: lang,
		Timezone: tz,
	}
	if err := s.userRepo.UpsertProfile(ctx, profile); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrProfileInvalid):
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		default:
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
	}
	return profile, nil
}

// RegistrationStatus is complete once the profile exists and every sport registration is complete.
func (s *accountService) RegistrationStatus(ctx context.Context, userID int) (*RegistrationStatus, error) {
	status := &RegistrationStatus{IncompleteRegistrations: []int{}}

	if _, err := s.userRepo.GetProfile(ctx, userID); err == nil {
		status.HasProfile = true
	} else if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	regs, err := s.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sport registrations: %w", err)
	}
	status.HasRegistrations = len(regs) > 0
	for _, reg := range regs {
		if !reg.IsComplete {
			status.IncompleteRegistrations = append(status.IncompleteRegistrations, reg.ID)
		}
	}
	status.Complete = status.HasProfile && status.HasRegistrations && len(status.IncompleteRegistrations) == 0
	return status, nil
}
