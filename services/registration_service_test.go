package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationFixture(mask models.RolesMask) (*fakeRegistrationRepo, *fakeRoleRepo, RegistrationService) {
	regs := &fakeRegistrationRepo{regs: map[int]*models.SportRegistration{
		7: {ID: 7, UserID: 42, SportID: 1, RolesMask: mask},
	}}
	roles := newFakeRoleRepo()
	svc := NewRegistrationService(regs, roles, fakeTx{}, discardLogger())
	return regs, roles, svc
}

func TestRegistrationService_RemoveRole(t *testing.T) {
	mask, err := models.MaskFor(models.RolePlayer, models.RoleCoach)
	require.NoError(t, err)
	regs, roles, svc := newRegistrationFixture(mask)
	roles.active[models.RolePlayer] = 1
	roles.active[models.RoleCoach] = 1

	role, err := svc.RemoveRole(context.Background(), Actor{UserID: 42}, 7, "coach")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoach, role)

	assert.Equal(t, []models.Role{models.RoleCoach}, roles.deactivated)
	assert.Equal(t, []models.Role{models.RolePlayer}, regs.regs[7].Roles())
	assert.True(t, regs.regs[7].IsComplete)
}

func TestRegistrationService_RemoveRoleViolations(t *testing.T) {
	player, err := models.MaskFor(models.RolePlayer)
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   Actor
		role    string
		wantErr error
	}{
		{name: "only role", actor: Actor{UserID: 42}, role: "Player", wantErr: ErrLastRole},
		{name: "role not registered", actor: Actor{UserID: 42}, role: "Referee", wantErr: ErrRoleNotRegistered},
		{name: "unknown role", actor: Actor{UserID: 42}, role: "Goalie", wantErr: models.ErrUnknownRole},
		{name: "someone else's registration", actor: Actor{UserID: 5}, role: "Player", wantErr: ErrForbiddenOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs, roles, svc := newRegistrationFixture(player)

			_, err := svc.RemoveRole(context.Background(), tt.actor, 7, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, roles.deactivated)
			assert.Equal(t, player, regs.regs[7].RolesMask)
		})
	}
}

func TestRegistrationService_AddRolesRecomputesCompletion(t *testing.T) {
	player, err := models.MaskFor(models.RolePlayer)
	require.NoError(t, err)
	regs, roles, svc := newRegistrationFixture(player)
	roles.active[models.RolePlayer] = 1

	reg, err := svc.AddRoles(context.Background(), Actor{UserID: 42}, 7, []string{"Referee"})
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RolePlayer, models.RoleReferee}, reg.Roles())
	assert.False(t, reg.IsComplete, "referee role has no record yet")
	assert.False(t, regs.regs[7].IsComplete)
}

func TestRegistrationService_RemoveRoleChecksLockedRow(t *testing.T) {
	both, err := models.MaskFor(models.RolePlayer, models.RoleCoach)
	require.NoError(t, err)
	player, err := models.MaskFor(models.RolePlayer)
	require.NoError(t, err)

	// Another request already removed Coach; the unlocked read still sees both roles.
	regs, roles, svc := newRegistrationFixture(player)
	regs.staleMasks = map[int]models.RolesMask{7: both}

	_, err = svc.RemoveRole(context.Background(), Actor{UserID: 42}, 7, "Player")
	assert.ErrorIs(t, err, ErrLastRole)
	assert.Equal(t, []int{7}, regs.locked)
	assert.Empty(t, roles.deactivated)
	assert.Equal(t, player, regs.regs[7].RolesMask)

	_, err = svc.RemoveRole(context.Background(), Actor{UserID: 42}, 7, "Coach")
	assert.ErrorIs(t, err, ErrRoleNotRegistered)
	assert.Empty(t, roles.deactivated)
}
