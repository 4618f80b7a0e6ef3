package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

type Season struct {
	ID                     int       `json:"id" db:"id"`
	LeagueID               int       `json:"league_id" db:"league_id"`
	StartDate              time.Time `json:"start_date" db:"start_date"`
	EndDate                time.Time `json:"end_date" db:"end_date"`
	ExpirationReminderSent bool      `json:"expiration_reminder_sent" db:"expiration_reminder_sent"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`

	TeamIDs []int   `json:"team_ids" db:"-"`
	League  *League `json:"league,omitempty" db:"-"`
}

// Label renders the season the way schedules show it, e.g. "2017-2018 Season".
func (s Season) Label() string {
	if s.StartDate.Year() == s.EndDate.Year() {
		return fmt.Sprintf("%d Season", s.StartDate.Year())
	}
	return fmt.Sprintf("%d-%d Season", s.StartDate.Year(), s.EndDate.Year())
}

// NextYear returns the dates of the season shifted forward by one year.
func (s Season) NextYear() (start, end time.Time) {
	return s.StartDate.AddDate(1, 0, 0), s.EndDate.AddDate(1, 0, 0)
}

// ExpiresWithin reports whether the season ends in the window (now, now+window].
func (s Season) ExpiresWithin(now time.Time, window time.Duration) bool {
	return s.EndDate.After(now) && !s.EndDate.After(now.Add(window))
}

// SeasonRoster is a named set of a team's players for one season.
type SeasonRoster struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SeasonID  int       `json:"season_id" db:"season_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Default   bool      `json:"default" db:"is_default"`
	CreatedBy *int      `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	PlayerIDs []int    `json:"player_ids" db:"-"`
	Players   []Player `json:"players,omitempty" db:"-"`
}
