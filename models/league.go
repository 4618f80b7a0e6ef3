package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// League belongs to a sport and groups divisions and seasons.
type League struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	FullName string `json:"full_name" db:"full_name"`
	Slug     string `json:"slug" db:"slug"`
	SportID  int    `json:"sport_id" db:"sport_id"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Sport *Sport `json:"sport,omitempty" db:"-"`
}

// AbbreviatedName returns the short form of the league's full name.
func (l League) AbbreviatedName() string {
	return AbbreviateName(l.FullName)
}

// AbbreviateName joins the initials of the capitalized words of a multi-word name,
// e.g. "Long Island Amateur Hockey League" becomes "LIAHL". Single words are kept
// as they are, and names without any capitalized word fall back to all initials.
func AbbreviateName(name string) string {
	words := strings.Fields(name)
	if len(words) <= 1 {
		return strings.TrimSpace(name)
	}

	var capitalized, all strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		all.WriteRune(unicode.ToUpper(r))
		if unicode.IsUpper(r) {
			capitalized.WriteRune(r)
		}
	}
	if capitalized.Len() > 0 {
		return capitalized.String()
	}
	return all.String()
}

// Division is a named group of teams inside a league.
type Division struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Slug     string `json:"slug" db:"slug"`
	LeagueID int    `json:"league_id" db:"league_id"`

	League *League `json:"league,omitempty" db:"-"`
}
