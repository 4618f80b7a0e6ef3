package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// Role-removal violations. The API answers them with HTTP 400.
var (
	ErrRoleNotRegistered = errors.New("role is not registered for this sport")
	ErrLastRole          = errors.New("a sport registration must keep at least one role")
	ErrRolesRequired     = errors.New("at least one role is required")
)

type RegistrationService interface {
	Create(ctx context.Context, actor Actor, input RegistrationInput) (*models.SportRegistration, error)
	Get(ctx context.Context, actor Actor, id int) (*models.SportRegistration, error)
	ListForUser(ctx context.Context, userID int) ([]models.SportRegistration, error)
	AddRoles(ctx context.Context, actor Actor, id int, roles []string) (*models.SportRegistration, error)
	// RemoveRole clears role from the registration and deactivates the user's
	// matching role records for the sport.
	RemoveRole(ctx context.Context, actor Actor, id int, role string) (models.Role, error)
	// RefreshCompletion recomputes whether every registered role has an active record.
	RefreshCompletion(ctx context.Context, userID, sportID int) (*models.SportRegistration, error)
}

type RegistrationInput struct {
	SportID int      `json:"sport_id" validate:"required,gt=0"`
	Roles   []string `json:"roles" validate:"required,min=1,dive,role"`
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	roleRepo         repositories.RoleRepository
	tx               repositories.Transactor
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	roleRepo repositories.RoleRepository,
	tx repositories.Transactor,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		roleRepo:         roleRepo,
		tx:               tx,
		logger:           logger,
	}
}

func mapRegistrationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrRegistrationNotFound):
		return ErrRegistrationNotFound
	case errors.Is(err, repositories.ErrRegistrationConflict):
		return ErrRegistrationConflict
	case errors.Is(err, repositories.ErrRegistrationRefInvalid):
		return ErrSportNotFound
	case errors.Is(err, repositories.ErrRegistrationRolesInvalid):
		return ErrRolesRequired
	}
	return err
}

func parseRoles(names []string) (models.RolesMask, error) {
	if len(names) == 0 {
		return 0, ErrRolesRequired
	}
	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		role, err := models.ParseRole(name)
		if err != nil {
			return 0, err
		}
		roles = append(roles, role)
	}
	return models.MaskFor(roles...)
}

// isComplete reports whether every role in mask has an active record for user in sport.
func (s *registrationService) isComplete(ctx context.Context, userID, sportID int, mask models.RolesMask) (bool, error) {
	for _, role := range mask.Roles() {
		n, err := s.roleRepo.CountActive(ctx, role, models.RoleFilter{UserID: userID, SportID: sportID, ActiveOnly: true})
		if err != nil {
			return false, fmt.Errorf("failed to count %s records: %w", role, err)
		}
		if n == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (s *registrationService) Create(ctx context.Context, actor Actor, input RegistrationInput) (*models.SportRegistration, error) {
	mask, err := parseRoles(input.Roles)
	if err != nil {
		return nil, err
	}
	complete, err := s.isComplete(ctx, actor.UserID, input.SportID, mask)
	if err != nil {
		return nil, err
	}
	reg := &models.SportRegistration{
		UserID:     actor.UserID,
		SportID:    input.SportID,
		RolesMask:  mask,
		IsComplete: complete,
	}
	if err := s.registrationRepo.Create(ctx, nil, reg); err != nil {
		if mapped := mapRegistrationError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create sport registration: %w", err)
	}
	s.logger.InfoContext(ctx, "sport registration created",
		slog.Int("user_id", reg.UserID),
		slog.Int("sport_id", reg.SportID),
		slog.Any("roles", reg.Roles()))
	return reg, nil
}

func (s *registrationService) Get(ctx context.Context, actor Actor, id int) (*models.SportRegistration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRegistrationError(err)
	}
	if !actor.IsStaff && reg.UserID != actor.UserID {
		return nil, ErrForbiddenOperation
	}
	return reg, nil
}

func (s *registrationService) ListForUser(ctx context.Context, userID int) ([]models.SportRegistration, error) {
	return s.registrationRepo.ListByUser(ctx, userID)
}

func (s *registrationService) AddRoles(ctx context.Context, actor Actor, id int, roles []string) (*models.SportRegistration, error) {
	reg, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	added, err := parseRoles(roles)
	if err != nil {
		return nil, err
	}
	mask := reg.RolesMask | added
	complete, err := s.isComplete(ctx, reg.UserID, reg.SportID, mask)
	if err != nil {
		return nil, err
	}
	if err := s.registrationRepo.UpdateRoles(ctx, nil, reg.ID, mask, complete); err != nil {
		return nil, mapRegistrationError(err)
	}
	reg.RolesMask = mask
	reg.IsComplete = complete
	return reg, nil
}

func (s *registrationService) RemoveRole(ctx context.Context, actor Actor, id int, roleName string) (models.Role, error) {
	reg, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}
	role, err := models.ParseRole(roleName)
	if err != nil {
		return "", err
	}

	// The mask is re-read under a row lock so concurrent removals cannot both
	// pass the last-role check.
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		locked, err := s.registrationRepo.GetForUpdate(ctx, exec, reg.ID)
		if err != nil {
			return err
		}
		if !locked.RolesMask.Has(role) {
			return fmt.Errorf("%w: %s", ErrRoleNotRegistered, role)
		}
		if locked.RolesMask.Count() <= 1 {
			return ErrLastRole
		}
		mask := locked.RolesMask.Without(role)

		n, err := s.roleRepo.DeactivateForUserSport(ctx, exec, role, locked.UserID, locked.SportID)
		if err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "role records deactivated",
			slog.Int("registration_id", locked.ID),
			slog.String("role", string(role)),
			slog.Int64("count", n))
		complete, err := s.isComplete(ctx, locked.UserID, locked.SportID, mask)
		if err != nil {
			return err
		}
		if err := s.registrationRepo.UpdateRoles(ctx, exec, locked.ID, mask, complete); err != nil {
			return err
		}
		reg.RolesMask = mask
		reg.IsComplete = complete
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotRegistered) || errors.Is(err, ErrLastRole) {
			return "", err
		}
		if mapped := mapRegistrationError(err); mapped != err {
			return "", mapped
		}
		return "", fmt.Errorf("failed to remove %s role: %w", role, err)
	}
	return role, nil
}

func (s *registrationService) RefreshCompletion(ctx context.Context, userID, sportID int) (*models.SportRegistration, error) {
	reg, err := s.registrationRepo.GetByUserAndSport(ctx, userID, sportID)
	if err != nil {
		return nil, mapRegistrationError(err)
	}
	complete, err := s.isComplete(ctx, userID, sportID, reg.RolesMask)
	if err != nil {
		return nil, err
	}
	if complete != reg.IsComplete {
		if err := s.registrationRepo.SetComplete(ctx, reg.ID, complete); err != nil {
			return nil, mapRegistrationError(err)
		}
		reg.IsComplete = complete
	}
	return reg, nil
}
