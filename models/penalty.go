package models

import "time"

// PenaltyType is reference data such as "Tripping" (TRIP, 2 minutes).
type PenaltyType struct {
	ID       int    `json:"id"`
	SportID  int    `json:"sport_id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Duration int    `json:"duration"`
}

// Penalty is an infraction assessed to a player during a game period.
type Penalty struct {
	ID           int       `json:"id"`
	GameID       int       `json:"game_id"`
	PeriodID     int       `json:"period_id"`
	TeamID       int       `json:"team_id"`
	PlayerID     int       `json:"player_id"`
	TypeID       int       `json:"type_id"`
	Duration     int       `json:"duration"`
	TimeInPeriod int       `json:"time_in_period"`
	CreatedBy    *int      `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Type *PenaltyType `json:"type,omitempty"`
}
