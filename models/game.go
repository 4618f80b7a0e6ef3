package models

import (
	"fmt"
	"time"
)

type GameStatus string

const (
	GameScheduled  GameStatus = "scheduled"
	GameInProgress GameStatus = "in_progress"
	GameCompleted  GameStatus = "completed"
	GamePostponed  GameStatus = "postponed"
	GameCancelled  GameStatus = "cancelled"
)

var gameTransitions = map[GameStatus][]GameStatus{
	GameScheduled:  {GameInProgress, GamePostponed, GameCancelled},
	GamePostponed:  {GameScheduled, GameCancelled},
	GameInProgress: {GameCompleted},
	GameCompleted:  {},
	GameCancelled:  {},
}

func (s GameStatus) Valid() bool {
	_, ok := gameTransitions[s]
	return ok
}

// CanTransition reports whether a game may move from s to next.
func (s GameStatus) CanTransition(next GameStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range gameTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// GameKind selects the game variant. Hockey games carry per-side rosters and starting goalies.
type GameKind string

const (
	GameKindHockey  GameKind = "hockey"
	GameKindGeneric GameKind = "generic"
)

func (k GameKind) Valid() bool { return k == GameKindHockey || k == GameKindGeneric }

type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) Valid() bool { return s == SideHome || s == SideAway }

type Game struct {
	ID                   int        `json:"id"`
	Kind                 GameKind   `json:"kind"`
	SeasonID             int        `json:"season_id"`
	HomeTeamID           int        `json:"home_team_id"`
	AwayTeamID           int        `json:"away_team_id"`
	TeamID               *int       `json:"team_id,omitempty"`
	TypeID               int        `json:"type_id"`
	PointValueID         int        `json:"point_value_id"`
	LocationID           int        `json:"location_id"`
	Start                time.Time  `json:"start"`
	End                  time.Time  `json:"end"`
	Timezone             string     `json:"timezone"`
	Status               GameStatus `json:"status"`
	CreatedBy            *int       `json:"created_by,omitempty"`
	HomeStartingGoalieID *int       `json:"home_starting_goalie_id,omitempty"`
	AwayStartingGoalieID *int       `json:"away_starting_goalie_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`

	HomePlayerIDs []int     `json:"home_player_ids,omitempty"`
	AwayPlayerIDs []int     `json:"away_player_ids,omitempty"`
	Periods       []Period  `json:"periods,omitempty"`
	Penalties     []Penalty `json:"penalties,omitempty"`
	HomeTeam      *Team     `json:"home_team,omitempty"`
	AwayTeam      *Team     `json:"away_team,omitempty"`
	Location      *Location `json:"location,omitempty"`
}

// TeamFor returns the team id playing on side.
func (g Game) TeamFor(side Side) int {
	if side == SideAway {
		return g.AwayTeamID
	}
	return g.HomeTeamID
}

// SideOf returns which side teamID plays on.
func (g Game) SideOf(teamID int) (Side, bool) {
	switch teamID {
	case g.HomeTeamID:
		return SideHome, true
	case g.AwayTeamID:
		return SideAway, true
	}
	return "", false
}

// Period is one timed segment of a game.
type Period struct {
	ID       int    `json:"id"`
	GameID   int    `json:"game_id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Finished bool   `json:"finished"`
}

// DefaultPeriodNames names the regulation periods followed by overtimeCount overtimes.
func DefaultPeriodNames(regulation, overtimeCount int) []string {
	names := make([]string, 0, regulation+overtimeCount)
	for i := 1; i <= regulation; i++ {
		names = append(names, fmt.Sprintf("%d", i))
	}
	for i := 1; i <= overtimeCount; i++ {
		names = append(names, fmt.Sprintf("OT%d", i))
	}
	return names
}
