package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role is one of the capacities a user can register for in a sport.
type Role string

const (
	RolePlayer      Role = "Player"
	RoleCoach       Role = "Coach"
	RoleReferee     Role = "Referee"
	RoleManager     Role = "Manager"
	RoleScorekeeper Role = "Scorekeeper"
)

// Roles lists every role in mask bit order.
var Roles = []Role{RolePlayer, RoleCoach, RoleReferee, RoleManager, RoleScorekeeper}

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) bit() RolesMask {
	for i, known := range Roles {
		if known == r {
			return 1 << i
		}
	}
	return 0
}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool { return r.bit() != 0 }

// RolesMask encodes a set of roles, one bit per entry of Roles.
type RolesMask int

// MaskFor builds the mask of roles, rejecting unknown names.
func MaskFor(roles ...Role) (RolesMask, error) {
	var m RolesMask
	for _, r := range roles {
		b := r.bit()
		if b == 0 {
			return 0, fmt.Errorf("%w: %q", ErrUnknownRole, r)
		}
		m |= b
	}
	return m, nil
}

func (m RolesMask) Has(r Role) bool {
	b := r.bit()
	return b != 0 && m&b == b
}

// Roles returns the roles set in m in canonical order.
func (m RolesMask) Roles() []Role {
	out := make([]Role, 0, len(Roles))
	for _, r := range Roles {
		if m.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m RolesMask) Count() int { return len(m.Roles()) }

func (m RolesMask) With(roles ...Role) RolesMask {
	for _, r := range roles {
		m |= r.bit()
	}
	return m
}

func (m RolesMask) Without(r Role) RolesMask {
	return m &^ r.bit()
}

// Valid reports whether m is non-empty and only uses known bits.
func (m RolesMask) Valid() bool {
	all, _ := MaskFor(Roles...)
	return m > 0 && m&^all == 0
}
