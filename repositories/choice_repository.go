package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrChoiceNotFound = errors.New("generic choice not found")
	ErrChoiceConflict = errors.New("generic choice already exists for this content type")
)

type ChoiceRepository interface {
	Create(ctx context.Context, choice *models.GenericChoice) error
	// EnsureExists inserts choice unless its (content type, short value) exists and reports whether it inserted.
	EnsureExists(ctx context.Context, choice *models.GenericChoice) (bool, error)
	GetByID(ctx context.Context, id int) (*models.GenericChoice, error)
	List(ctx context.Context, contentType string) ([]models.GenericChoice, error)
}

type postgresChoiceRepository struct {
	db *sql.DB
}

func NewPostgresChoiceRepository(db *sql.DB) ChoiceRepository {
	return &postgresChoiceRepository{db: db}
}

func (r *postgresChoiceRepository) Create(ctx context.Context, c *models.GenericChoice) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO generic_choices (content_type, short_value, long_value) VALUES ($1, $2, $3) RETURNING id`,
		c.ContentType, c.ShortValue, c.LongValue,
	).Scan(&c.ID)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return ErrChoiceConflict
		}
		return fmt.Errorf("failed to create generic choice: %w", err)
	}
	return nil
}

func (r *postgresChoiceRepository) EnsureExists(ctx context.Context, c *models.GenericChoice) (bool, error) {
	query := `
		INSERT INTO generic_choices (content_type, short_value, long_value) VALUES ($1, $2, $3)
		ON CONFLICT (content_type, short_value) DO NOTHING
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, c.ContentType, c.ShortValue, c.LongValue).Scan(&c.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to seed generic choice %s/%s: %w", c.ContentType, c.ShortValue, err)
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, long_value FROM generic_choices WHERE content_type = $1 AND short_value = $2`,
		c.ContentType, c.ShortValue,
	).Scan(&c.ID, &c.LongValue)
	if err != nil {
		return false, fmt.Errorf("failed to load generic choice %s/%s: %w", c.ContentType, c.ShortValue, err)
	}
	return false, nil
}

func (r *postgresChoiceRepository) GetByID(ctx context.Context, id int) (*models.GenericChoice, error) {
	var c models.GenericChoice
	err := r.db.QueryRowContext(ctx,
		`SELECT id, content_type, short_value, long_value FROM generic_choices WHERE id = $1`, id,
	).Scan(&c.ID, &c.ContentType, &c.ShortValue, &c.LongValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChoiceNotFound
		}
		return nil, fmt.Errorf("failed to get generic choice %d: %w", id, err)
	}
	return &c, nil
}

func (r *postgresChoiceRepository) List(ctx context.Context, contentType string) ([]models.GenericChoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content_type, short_value, long_value
		FROM generic_choices
		WHERE ($1 = '' OR content_type = $1)
		ORDER BY content_type, long_value`, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list generic choices: %w", err)
	}
	defer rows.Close()

	choices := make([]models.GenericChoice, 0)
	for rows.Next() {
		var c models.GenericChoice
		if err := rows.Scan(&c.ID, &c.ContentType, &c.ShortValue, &c.LongValue); err != nil {
			return nil, fmt.Errorf("failed to scan generic choice: %w", err)
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}
