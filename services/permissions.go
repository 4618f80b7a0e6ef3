package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// Actor is the authenticated user a service call is made on behalf of.
type Actor struct {
	UserID  int
	IsStaff bool
}

// Permissions answers who may change what. Staff may do everything.
type Permissions struct {
	roleRepo   repositories.RoleRepository
	seasonRepo repositories.SeasonRepository
	leagueRepo repositories.LeagueRepository
}

func NewPermissions(
	roleRepo repositories.RoleRepository,
	seasonRepo repositories.SeasonRepository,
	leagueRepo repositories.LeagueRepository,
) *Permissions {
	return &Permissions{roleRepo: roleRepo, seasonRepo: seasonRepo, leagueRepo: leagueRepo}
}

func (p *Permissions) RequireStaff(actor Actor) error {
	if !actor.IsStaff {
		return ErrForbiddenOperation
	}
	return nil
}

// RequireSelfOrStaff allows the owner of a record or staff.
func (p *Permissions) RequireSelfOrStaff(actor Actor, ownerID int) error {
	if actor.IsStaff || (actor.UserID != 0 && actor.UserID == ownerID) {
		return nil
	}
	return ErrForbiddenOperation
}

// CanManageTeam allows active managers and coaches of the team.
func (p *Permissions) CanManageTeam(ctx context.Context, actor Actor, teamID int) error {
	if actor.IsStaff {
		return nil
	}
	for _, role := range []models.Role{models.RoleManager, models.RoleCoach} {
		n, err := p.roleRepo.CountActive(ctx, role, models.RoleFilter{UserID: actor.UserID, TeamID: teamID})
		if err != nil {
			return fmt.Errorf("failed to check %s permission: %w", role, err)
		}
		if n > 0 {
			return nil
		}
	}
	return ErrForbiddenOperation
}

// CanScoreGame allows active referees of the game's league and active scorekeepers of its sport.
func (p *Permissions) CanScoreGame(ctx context.Context, actor Actor, game *models.Game) error {
	if actor.IsStaff {
		return nil
	}
	season, err := p.seasonRepo.GetByID(ctx, game.SeasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return ErrSeasonNotFound
		}
		return fmt.Errorf("failed to load season of game %d: %w", game.ID, err)
	}
	n, err := p.roleRepo.CountActive(ctx, models.RoleReferee, models.RoleFilter{UserID: actor.UserID, LeagueID: season.LeagueID})
	if err != nil {
		return fmt.Errorf("failed to check referee permission: %w", err)
	}
	if n > 0 {
		return nil
	}

	league, err := p.leagueRepo.GetByID(ctx, season.LeagueID)
	if err != nil {
		return fmt.Errorf("failed to load league of game %d: %w", game.ID, err)
	}
	n, err = p.roleRepo.CountActive(ctx, models.RoleScorekeeper, models.RoleFilter{UserID: actor.UserID, SportID: league.SportID})
	if err != nil {
		return fmt.Errorf("failed to check scorekeeper permission: %w", err)
	}
	if n > 0 {
		return nil
	}
	return ErrForbiddenOperation
}
