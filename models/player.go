package models

// Position is a hockey skater or goaltender position.
type Position string

const (
	PositionCenter       Position = "C"
	PositionLeftWing     Position = "LW"
	PositionRightWing    Position = "RW"
	PositionLeftDefense  Position = "LD"
	PositionRightDefense Position = "RD"
	PositionGoaltender   Position = "G"
)

func (p Position) Valid() bool {
	switch p {
	case PositionCenter, PositionLeftWing, PositionRightWing,
		PositionLeftDefense, PositionRightDefense, PositionGoaltender:
		return true
	}
	return false
}

type Handedness string

const (
	HandednessLeft  Handedness = "Left"
	HandednessRight Handedness = "Right"
)

func (h Handedness) Valid() bool {
	return h == HandednessLeft || h == HandednessRight
}

type Player struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	SportID      int        `json:"sport_id"`
	TeamID       int        `json:"team_id"`
	JerseyNumber int        `json:"jersey_number"`
	Position     Position   `json:"position"`
	Handedness   Handedness `json:"handedness"`
	IsActive     bool       `json:"is_active"`

	User *User `json:"user,omitempty"`
}

func (p Player) IsGoalie() bool { return p.Position == PositionGoaltender }

type CoachPosition string

const (
	CoachHead      CoachPosition = "Head Coach"
	CoachAssistant CoachPosition = "Assistant Coach"
)

func (p CoachPosition) Valid() bool {
	return p == CoachHead || p == CoachAssistant
}

type Coach struct {
	ID       int           `json:"id"`
	UserID   int           `json:"user_id"`
	TeamID   int           `json:"team_id"`
	Position CoachPosition `json:"position"`
	IsActive bool          `json:"is_active"`
}

type Referee struct {
	ID       int  `json:"id"`
	UserID   int  `json:"user_id"`
	LeagueID int  `json:"league_id"`
	IsActive bool `json:"is_active"`
}

type Manager struct {
	ID       int  `json:"id"`
	UserID   int  `json:"user_id"`
	TeamID   int  `json:"team_id"`
	IsActive bool `json:"is_active"`
}

type Scorekeeper struct {
	ID       int  `json:"id"`
	UserID   int  `json:"user_id"`
	SportID  int  `json:"sport_id"`
	IsActive bool `json:"is_active"`
}

// RoleFilter narrows role record listings. Zero values mean "any".
type RoleFilter struct {
	UserID     int
	TeamID     int
	SportID    int
	LeagueID   int
	ActiveOnly bool
}
