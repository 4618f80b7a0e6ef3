package models

import "time"

// FeatureSwitch toggles a feature globally.
type FeatureSwitch struct {
	Name      string    `json:"name" yaml:"name"`
	Active    bool      `json:"active" yaml:"active"`
	Note      string    `json:"note" yaml:"note"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Feature switch names checked by the services.
const (
	SwitchPlayerUpdate    = "player_update"
	SwitchSeasonCopy      = "season_copy"
	SwitchLiveGameFeed    = "live_game_feed"
	SwitchBulkUploadTeams = "bulk_upload_teams"
)
