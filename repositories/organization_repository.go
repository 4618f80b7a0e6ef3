package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrOrganizationNotFound     = errors.New("organization not found")
	ErrOrganizationNameConflict = errors.New("organization name conflict")
	ErrOrganizationSportInvalid = errors.New("organization sport is invalid")
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id int) (*models.Organization, error)
	List(ctx context.Context, sportID int) ([]models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	SetLogo(ctx context.Context, id int, key *string) error
}

type postgresOrganizationRepository struct {
	db *sql.DB
}

func NewPostgresOrganizationRepository(db *sql.DB) OrganizationRepository {
	return &postgresOrganizationRepository{db: db}
}

func scanOrganization(row rowScanner, o *models.Organization) error {
	var createdBy sql.NullInt64
	var logo sql.NullString
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.SportID, &createdBy, &logo); err != nil {
		return err
	}
	o.CreatedBy = intPtr(createdBy)
	o.LogoKey = stringPtr(logo)
	return nil
}

func mapOrganizationWriteError(err error) error {
	if constraint, ok := isUniqueViolation(err); ok && constraint == "organizations_name_sport_id_key" {
		return ErrOrganizationNameConflict
	}
	if constraint, ok := isForeignKeyViolation(err); ok && constraint == "organizations_sport_id_fkey" {
		return ErrOrganizationSportInvalid
	}
	return fmt.Errorf("failed to save organization: %w", err)
}

func (r *postgresOrganizationRepository) Create(ctx context.Context, o *models.Organization) error {
	query := `INSERT INTO organizations (name, slug, sport_id, created_by) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, o.Name, o.Slug, o.SportID, nullableInt(o.CreatedBy)).Scan(&o.ID); err != nil {
		return mapOrganizationWriteError(err)
	}
	return nil
}

func (r *postgresOrganizationRepository) GetByID(ctx context.Context, id int) (*models.Organization, error) {
	var o models.Organization
	row := r.db.QueryRowContext(ctx, `SELECT id, name, slug, sport_id, created_by, logo_key FROM organizations WHERE id = $1`, id)
	if err := scanOrganization(row, &o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization %d: %w", id, err)
	}
	return &o, nil
}

func (r *postgresOrganizationRepository) List(ctx context.Context, sportID int) ([]models.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, slug, sport_id, created_by, logo_key
		FROM organizations
		WHERE ($1 = 0 OR sport_id = $1)
		ORDER BY name ASC`, sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]models.Organization, 0)
	for rows.Next() {
		var o models.Organization
		if err := scanOrganization(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *postgresOrganizationRepository) Update(ctx context.Context, o *models.Organization) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE organizations SET name = $1, slug = $2, sport_id = $3 WHERE id = $4`,
		o.Name, o.Slug, o.SportID, o.ID)
	if err != nil {
		return mapOrganizationWriteError(err)
	}
	return checkAffectedRows(result, ErrOrganizationNotFound)
}

func (r *postgresOrganizationRepository) SetLogo(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE organizations SET logo_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to set logo of organization %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrOrganizationNotFound)
}
