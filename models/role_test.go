package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskFor(t *testing.T) {
	m, err := MaskFor(RolePlayer, RoleReferee)
	require.NoError(t, err)
	assert.Equal(t, RolesMask(5), m)
	assert.True(t, m.Has(RolePlayer))
	assert.True(t, m.Has(RoleReferee))
	assert.False(t, m.Has(RoleCoach))
	assert.Equal(t, []Role{RolePlayer, RoleReferee}, m.Roles())

	_, err = MaskFor(RolePlayer, Role("Goalie"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRolesMask_WithWithout(t *testing.T) {
	m, _ := MaskFor(RoleCoach)
	m = m.With(RoleManager, RoleScorekeeper, RoleCoach)
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, []Role{RoleCoach, RoleManager, RoleScorekeeper}, m.Roles())

	m = m.Without(RoleManager)
	assert.Equal(t, []Role{RoleCoach, RoleScorekeeper}, m.Roles())

	// removing a role that is not set is a no-op
	assert.Equal(t, m, m.Without(RolePlayer))
	assert.True(t, m.Valid())
	assert.False(t, RolesMask(0).Valid())
	assert.False(t, RolesMask(64).Valid())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "player", want: RolePlayer},
		{in: "Coach", want: RoleCoach},
		{in: " SCOREKEEPER ", want: RoleScorekeeper},
		{in: "goalie", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSportRegistration_MarshalJSON(t *testing.T) {
	mask, _ := MaskFor(RolePlayer, RoleManager)
	reg := SportRegistration{ID: 3, UserID: 7, SportID: 1, RolesMask: mask}

	data, err := json.Marshal(reg)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []interface{}{"Player", "Manager"}, got["roles"])
	assert.Equal(t, float64(3), got["id"])
	assert.NotContains(t, got, "RolesMask")
}
