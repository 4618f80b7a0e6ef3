package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrLocationNotFound     = errors.New("location not found")
	ErrLocationNameConflict = errors.New("location name conflict")
	ErrLocationInUse        = errors.New("location cannot be deleted as games are scheduled there")
)

type LocationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, location *models.Location) error
	GetByID(ctx context.Context, id int) (*models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id int) error
}

type postgresLocationRepository struct {
	db *sql.DB
}

func NewPostgresLocationRepository(db *sql.DB) LocationRepository {
	return &postgresLocationRepository{db: db}
}

const locationColumns = `id, name, slug, street_number, street, city, region, postal_code, phone_number, website, google_embed_code`

func scanLocation(row rowScanner, l *models.Location) error {
	return row.Scan(&l.ID, &l.Name, &l.Slug, &l.StreetNumber, &l.Street, &l.City, &l.Region,
		&l.PostalCode, &l.PhoneNumber, &l.Website, &l.GoogleEmbedCode)
}

func (r *postgresLocationRepository) Create(ctx context.Context, exec SQLExecutor, l *models.Location) error {
	query := `
		INSERT INTO locations (name, slug, street_number, street, city, region, postal_code, phone_number, website, google_embed_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		l.Name, l.Slug, l.StreetNumber, l.Street, l.City, l.Region,
		l.PostalCode, l.PhoneNumber, l.Website, l.GoogleEmbedCode,
	).Scan(&l.ID)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == "locations_name_key" {
			return ErrLocationNameConflict
		}
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (r *postgresLocationRepository) GetByID(ctx context.Context, id int) (*models.Location, error) {
	var l models.Location
	if err := scanLocation(r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id), &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	return &l, nil
}

func (r *postgresLocationRepository) List(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]models.Location, 0)
	for rows.Next() {
		var l models.Location
		if err := scanLocation(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *postgresLocationRepository) Update(ctx context.Context, l *models.Location) error {
	query := `
		UPDATE locations SET
			name = $1, slug = $2, street_number = $3, street = $4, city = $5, region = $6,
			postal_code = $7, phone_number = $8, website = $9, google_embed_code = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		l.Name, l.Slug, l.StreetNumber, l.Street, l.City, l.Region,
		l.PostalCode, l.PhoneNumber, l.Website, l.GoogleEmbedCode, l.ID,
	)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == "locations_name_key" {
			return ErrLocationNameConflict
		}
		return fmt.Errorf("failed to update location %d: %w", l.ID, err)
	}
	return checkAffectedRows(result, ErrLocationNotFound)
}

func (r *postgresLocationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return ErrLocationInUse
		}
		return fmt.Errorf("failed to delete location %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLocationNotFound)
}
