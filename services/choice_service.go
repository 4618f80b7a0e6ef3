package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

var ErrChoiceInvalid = errors.New("choice content type and short value are required")

type ChoiceService interface {
	List(ctx context.Context, contentType string) ([]models.GenericChoice, error)
	Create(ctx context.Context, input ChoiceInput) (*models.GenericChoice, error)
	// Require loads choice id and checks it belongs to contentType.
	Require(ctx context.Context, id int, contentType string) (*models.GenericChoice, error)
	Seed(ctx context.Context, choices []models.GenericChoice) (int, error)
}

type ChoiceInput struct {
	ContentType string `json:"content_type" validate:"required,max=64"`
	ShortValue  string `json:"short_value" validate:"required,max=64"`
	LongValue   string `json:"long_value" validate:"required,max=255"`
}

type choiceService struct {
	choiceRepo repositories.ChoiceRepository
}

func NewChoiceService(choiceRepo repositories.ChoiceRepository) ChoiceService {
	return &choiceService{choiceRepo: choiceRepo}
}

func normalizeChoice(c models.GenericChoice) (models.GenericChoice, error) {
	c.ContentType = strings.ToLower(strings.TrimSpace(c.ContentType))
	c.ShortValue = strings.TrimSpace(c.ShortValue)
	c.LongValue = strings.TrimSpace(c.LongValue)
	if c.ContentType == "" || c.ShortValue == "" {
		return c, ErrChoiceInvalid
	}
	if c.LongValue == "" {
		c.LongValue = c.ShortValue
	}
	return c, nil
}

func (s *choiceService) List(ctx context.Context, contentType string) ([]models.GenericChoice, error) {
	return s.choiceRepo.List(ctx, strings.ToLower(strings.TrimSpace(contentType)))
}

func (s *choiceService) Create(ctx context.Context, input ChoiceInput) (*models.GenericChoice, error) {
	choice, err := normalizeChoice(models.GenericChoice{
		ContentType: input.ContentType,
		ShortValue:  input.ShortValue,
		LongValue:   input.LongValue,
	})
	if err != nil {
		return nil, err
	}
	if err := s.choiceRepo.Create(ctx, &choice); err != nil {
		if errors.Is(err, repositories.ErrChoiceConflict) {
			return nil, ErrChoiceConflict
		}
		return nil, fmt.Errorf("failed to create choice: %w", err)
	}
	return &choice, nil
}

func (s *choiceService) Require(ctx context.Context, id int, contentType string) (*models.GenericChoice, error) {
	choice, err := s.choiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChoiceNotFound) {
			return nil, fmt.Errorf("%w: %s %d", ErrChoiceNotFound, contentType, id)
		}
		return nil, err
	}
	if choice.ContentType != contentType {
		return nil, fmt.Errorf("%w: choice %d is not a %s", ErrValidationFailed, id, contentType)
	}
	return choice, nil
}

func (s *choiceService) Seed(ctx context.Context, choices []models.GenericChoice) (int, error) {
	created := 0
	for _, c := range choices {
		choice, err := normalizeChoice(c)
		if err != nil {
			return created, err
		}
		ok, err := s.choiceRepo.EnsureExists(ctx, &choice)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
