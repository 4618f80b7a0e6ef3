package models

import "encoding/json"

// SportRegistration records the roles a user selected for a sport.
type SportRegistration struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	SportID    int       `json:"sport_id"`
	RolesMask  RolesMask `json:"-"`
	IsComplete bool      `json:"is_complete"`

	Sport *Sport `json:"sport,omitempty"`
}

func (r SportRegistration) Roles() []Role {
	return r.RolesMask.Roles()
}

// MarshalJSON exposes the role names instead of the raw mask.
func (r SportRegistration) MarshalJSON() ([]byte, error) {
	type registration SportRegistration
	return json.Marshal(struct {
		registration
		Roles []Role `json:"roles"`
	}{registration(r), r.Roles()})
}
