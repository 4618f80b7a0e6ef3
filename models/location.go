package models

// Location is a rink or field where games are played.
type Location struct {
	ID              int    `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	Slug            string `json:"slug" db:"slug"`
	StreetNumber    string `json:"street_number" db:"street_number"`
	Street          string `json:"street" db:"street"`
	City            string `json:"city" db:"city"`
	Region          string `json:"region" db:"region"`
	PostalCode      string `json:"postal_code" db:"postal_code"`
	PhoneNumber     string `json:"phone_number" db:"phone_number"`
	Website         string `json:"website" db:"website"`
	GoogleEmbedCode string `json:"google_embed_code" db:"google_embed_code"`
}
