package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_RegistrationStatus(t *testing.T) {
	tests := []struct {
		name           string
		profile        bool
		regs           []*models.SportRegistration
		wantIncomplete []int
		wantHasRegs    bool
		wantComplete   bool
	}{
		{
			name:           "nothing yet",
			wantIncomplete: []int{},
		},
		{
			name:           "profile without sports",
			profile:        true,
			wantIncomplete: []int{},
		},
		{
			name:    "sports without profile",
			profile: false,
			regs: []*models.SportRegistration{
				{ID: 1, UserID: 1, SportID: 1, IsComplete: true},
			},
			wantIncomplete: []int{},
			wantHasRegs:    true,
		},
		{
			name:    "one sport still missing role records",
			profile: true,
			regs: []*models.SportRegistration{
				{ID: 1, UserID: 1, SportID: 1, IsComplete: true},
				{ID: 2, UserID: 1, SportID: 2},
				{ID: 3, UserID: 9, SportID: 2},
			},
			wantIncomplete: []int{2},
			wantHasRegs:    true,
		},
		{
			name:    "complete",
			profile: true,
			regs: []*models.SportRegistration{
				{ID: 1, UserID: 1, SportID: 1, IsComplete: true},
				{ID: 2, UserID: 1, SportID: 2, IsComplete: true},
			},
			wantIncomplete: []int{},
			wantHasRegs:    true,
			wantComplete:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo(models.User{ID: 1, IsActive: true})
			if tt.profile {
				users.profiles[1] = &models.UserProfile{UserID: 1}
			}
			regs := &fakeRegistrationRepo{regs: map[int]*models.SportRegistration{}}
			for _, reg := range tt.regs {
				regs.regs[reg.ID] = reg
			}
			svc := NewAccountService(users, regs, "en", "America/New_York")

			status, err := svc.RegistrationStatus(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.profile, status.HasProfile)
			assert.Equal(t, tt.wantHasRegs, status.HasRegistrations)
			assert.Equal(t, tt.wantIncomplete, status.IncompleteRegistrations)
			assert.Equal(t, tt.wantComplete, status.Complete)
		})
	}
}
