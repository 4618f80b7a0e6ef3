package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to GameStatus
		want     bool
	}{
		{GameScheduled, GameInProgress, true},
		{GameScheduled, GamePostponed, true},
		{GamePostponed, GameScheduled, true},
		{GameInProgress, GameCompleted, true},
		{GameInProgress, GameScheduled, false},
		{GameCompleted, GameInProgress, false},
		{GameCancelled, GameScheduled, false},
		{GameCompleted, GameCompleted, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
	assert.False(t, GameStatus("paused").Valid())
}

func TestDefaultPeriodNames(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, DefaultPeriodNames(3, 0))
	assert.Equal(t, []string{"1", "2", "3", "OT1"}, DefaultPeriodNames(3, 1))
}

func TestGame_Sides(t *testing.T) {
	g := Game{HomeTeamID: 1, AwayTeamID: 2}
	assert.Equal(t, 2, g.TeamFor(SideAway))
	assert.Equal(t, 1, g.TeamFor(SideHome))

	side, ok := g.SideOf(2)
	assert.True(t, ok)
	assert.Equal(t, SideAway, side)

	_, ok = g.SideOf(3)
	assert.False(t, ok)
}
