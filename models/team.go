package models

type Team struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Slug           string `json:"slug" db:"slug"`
	Website        string `json:"website" db:"website"`
	DivisionID     int    `json:"division_id" db:"division_id"`
	OrganizationID *int   `json:"organization_id,omitempty" db:"organization_id"`
	IsActive       bool   `json:"is_active" db:"is_active"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Division *Division `json:"division,omitempty" db:"-"`
}
