package models

// Organization owns teams across divisions of the same sport.
type Organization struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Slug      string `json:"slug" db:"slug"`
	SportID   int    `json:"sport_id" db:"sport_id"`
	CreatedBy *int   `json:"created_by,omitempty" db:"created_by"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
