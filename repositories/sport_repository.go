package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrSportNotFound     = errors.New("sport not found")
	ErrSportNameConflict = errors.New("sport name conflict")
	ErrSportInUse        = errors.New("sport cannot be deleted as it is in use")
)

type SportRepository interface {
	Create(ctx context.Context, sport *models.Sport) error
	GetByID(ctx context.Context, id int) (*models.Sport, error)
	GetByName(ctx context.Context, name string) (*models.Sport, error)
	GetAll(ctx context.Context) ([]models.Sport, error)
	Update(ctx context.Context, sport *models.Sport) error
	Delete(ctx context.Context, id int) error
	// EnsureExists inserts sport unless one with the same name exists and reports whether it inserted.
	EnsureExists(ctx context.Context, sport *models.Sport) (bool, error)
}

type postgresSportRepository struct {
	db *sql.DB
}

func NewPostgresSportRepository(db *sql.DB) SportRepository {
	return &postgresSportRepository{db: db}
}

func mapSportWriteError(err error) error {
	if constraint, ok := isUniqueViolation(err); ok {
		if constraint == "sports_name_key" || constraint == "sports_slug_key" {
			return ErrSportNameConflict
		}
	}
	return err
}

func (r *postgresSportRepository) Create(ctx context.Context, sport *models.Sport) error {
	query := `INSERT INTO sports (name, slug, description) VALUES ($1, $2, $3) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, sport.Name, sport.Slug, sport.Description).Scan(&sport.ID)
	if err != nil {
		return mapSportWriteError(err)
	}
	return nil
}

func (r *postgresSportRepository) scanOne(ctx context.Context, query string, arg interface{}) (*models.Sport, error) {
	var sport models.Sport
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&sport.ID, &sport.Name, &sport.Slug, &sport.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}
	return &sport, nil
}

func (r *postgresSportRepository) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	return r.scanOne(ctx, `SELECT id, name, slug, description FROM sports WHERE id = $1`, id)
}

func (r *postgresSportRepository) GetByName(ctx context.Context, name string) (*models.Sport, error) {
	return r.scanOne(ctx, `SELECT id, name, slug, description FROM sports WHERE lower(name) = lower($1)`, name)
}

func (r *postgresSportRepository) GetAll(ctx context.Context) ([]models.Sport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, description FROM sports ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sports := make([]models.Sport, 0)
	for rows.Next() {
		var sport models.Sport
		if err := rows.Scan(&sport.ID, &sport.Name, &sport.Slug, &sport.Description); err != nil {
			return nil, err
		}
		sports = append(sports, sport)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sports, nil
}

func (r *postgresSportRepository) Update(ctx context.Context, sport *models.Sport) error {
	query := `UPDATE sports SET name = $1, slug = $2, description = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, sport.Name, sport.Slug, sport.Description, sport.ID)
	if err != nil {
		return mapSportWriteError(err)
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *postgresSportRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sports WHERE id = $1`, id)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return ErrSportInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *postgresSportRepository) EnsureExists(ctx context.Context, sport *models.Sport) (bool, error) {
	query := `
		INSERT INTO sports (name, slug, description) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, sport.Name, sport.Slug, sport.Description).Scan(&sport.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to seed sport %q: %w", sport.Name, err)
	}
	existing, err := r.GetByName(ctx, sport.Name)
	if err != nil {
		return false, err
	}
	*sport = *existing
	return false, nil
}
