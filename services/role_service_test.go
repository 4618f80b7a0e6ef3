package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleFixture struct {
	roles         *fakeRoleRepo
	registrations *fakeRegistrations
	svc           RoleService
}

// newRoleFixture registers user 42 as Scorekeeper and Referee in sport 1 and
// user 43 as Player only.
func newRoleFixture(t *testing.T) roleFixture {
	t.Helper()
	officials, err := models.MaskFor(models.RoleScorekeeper, models.RoleReferee)
	require.NoError(t, err)
	player, err := models.MaskFor(models.RolePlayer)
	require.NoError(t, err)

	regRepo := &fakeRegistrationRepo{regs: map[int]*models.SportRegistration{
		1: {ID: 1, UserID: 42, SportID: 1, RolesMask: officials},
		2: {ID: 2, UserID: 43, SportID: 1, RolesMask: player},
	}}
	leagues := &fakeLeagueRepo{leagues: map[int]*models.League{3: {ID: 3, SportID: 1}}}
	roles := newFakeRoleRepo()
	registrations := &fakeRegistrations{}
	svc := NewRoleService(roles, nil, leagues, regRepo, registrations, fakeSwitches{}, discardLogger())
	return roleFixture{roles: roles, registrations: registrations, svc: svc}
}

func TestRoleService_CreateScorekeeper(t *testing.T) {
	f := newRoleFixture(t)

	sk, err := f.svc.CreateScorekeeper(context.Background(), Actor{UserID: 42}, ScorekeeperInput{SportID: 1})
	require.NoError(t, err)
	assert.Equal(t, 42, sk.UserID)
	assert.True(t, sk.IsActive)
	require.Len(t, f.roles.scorekeepers, 1)
	assert.Equal(t, []completionCall{{userID: 42, sportID: 1}}, f.registrations.refreshed)
}

func TestRoleService_CreateReferee(t *testing.T) {
	f := newRoleFixture(t)

	ref, err := f.svc.CreateReferee(context.Background(), Actor{UserID: 42}, RefereeInput{LeagueID: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, ref.LeagueID)
	assert.Equal(t, []completionCall{{userID: 42, sportID: 1}}, f.registrations.refreshed,
		"completion is refreshed for the league's sport")
}

func TestRoleService_CreateRequiresRegisteredRole(t *testing.T) {
	tests := []struct {
		name    string
		create  func(RoleService) error
		wantErr error
	}{
		{
			name: "role missing from the registration",
			create: func(svc RoleService) error {
				_, err := svc.CreateScorekeeper(context.Background(), Actor{UserID: 43}, ScorekeeperInput{SportID: 1})
				return err
			},
			wantErr: ErrRoleNotRegistered,
		},
		{
			name: "no registration for the sport",
			create: func(svc RoleService) error {
				_, err := svc.CreateScorekeeper(context.Background(), Actor{UserID: 42}, ScorekeeperInput{SportID: 2})
				return err
			},
			wantErr: ErrRoleNotRegistered,
		},
		{
			name: "referee for an unknown league",
			create: func(svc RoleService) error {
				_, err := svc.CreateReferee(context.Background(), Actor{UserID: 42}, RefereeInput{LeagueID: 9})
				return err
			},
			wantErr: ErrLeagueNotFound,
		},
		{
			name: "record for another user",
			create: func(svc RoleService) error {
				_, err := svc.CreateScorekeeper(context.Background(), Actor{UserID: 43}, ScorekeeperInput{UserID: 42, SportID: 1})
				return err
			},
			wantErr: ErrRoleRecordForeignUser,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoleFixture(t)
			assert.ErrorIs(t, tt.create(f.svc), tt.wantErr)
			assert.Empty(t, f.roles.scorekeepers)
			assert.Empty(t, f.roles.referees)
			assert.Empty(t, f.registrations.refreshed)
		})
	}
}

func TestRoleService_StaffCreatesForAnotherUser(t *testing.T) {
	f := newRoleFixture(t)

	sk, err := f.svc.CreateScorekeeper(context.Background(), Actor{UserID: 1, IsStaff: true}, ScorekeeperInput{UserID: 42, SportID: 1})
	require.NoError(t, err)
	assert.Equal(t, 42, sk.UserID)
}

func TestRoleService_Deactivate(t *testing.T) {
	tests := []struct {
		name          string
		actor         Actor
		wantErr       error
		wantActive    bool
		wantRefreshed []completionCall
	}{
		{name: "owner", actor: Actor{UserID: 42}, wantRefreshed: []completionCall{{userID: 42, sportID: 1}}},
		{name: "staff", actor: Actor{UserID: 1, IsStaff: true}, wantRefreshed: []completionCall{{userID: 42, sportID: 1}}},
		{name: "another user", actor: Actor{UserID: 43}, wantErr: ErrForbiddenOperation, wantActive: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoleFixture(t)
			sk, err := f.svc.CreateScorekeeper(context.Background(), Actor{UserID: 42}, ScorekeeperInput{SportID: 1})
			require.NoError(t, err)
			f.registrations.refreshed = nil

			err = f.svc.Deactivate(context.Background(), tt.actor, models.RoleScorekeeper, sk.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantActive, f.roles.scorekeepers[sk.ID].IsActive)
			assert.Equal(t, tt.wantRefreshed, f.registrations.refreshed)
		})
	}
}

func TestRoleService_DeactivateUnknownRecord(t *testing.T) {
	f := newRoleFixture(t)
	err := f.svc.Deactivate(context.Background(), Actor{UserID: 42}, models.RoleScorekeeper, 99)
	assert.ErrorIs(t, err, ErrRoleRecordNotFound)
	assert.Empty(t, f.registrations.refreshed)
}
