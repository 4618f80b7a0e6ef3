package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var ErrSwitchNotFound = errors.New("feature switch not found")

type SwitchRepository interface {
	Get(ctx context.Context, name string) (*models.FeatureSwitch, error)
	List(ctx context.Context) ([]models.FeatureSwitch, error)
	// Upsert creates the switch or overwrites its state when overwrite is set.
	Upsert(ctx context.Context, sw *models.FeatureSwitch, overwrite bool) (bool, error)
	SetActive(ctx context.Context, name string, active bool) error
}

type postgresSwitchRepository struct {
	db *sql.DB
}

func NewPostgresSwitchRepository(db *sql.DB) SwitchRepository {
	return &postgresSwitchRepository{db: db}
}

func (r *postgresSwitchRepository) Get(ctx context.Context, name string) (*models.FeatureSwitch, error) {
	var sw models.FeatureSwitch
	err := r.db.QueryRowContext(ctx,
		`SELECT name, active, note, updated_at FROM feature_switches WHERE name = $1`, name,
	).Scan(&sw.Name, &sw.Active, &sw.Note, &sw.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSwitchNotFound
		}
		return nil, fmt.Errorf("failed to get feature switch %q: %w", name, err)
	}
	return &sw, nil
}

func (r *postgresSwitchRepository) List(ctx context.Context) ([]models.FeatureSwitch, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, active, note, updated_at FROM feature_switches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feature switches: %w", err)
	}
	defer rows.Close()

	switches := make([]models.FeatureSwitch, 0)
	for rows.Next() {
		var sw models.FeatureSwitch
		if err := rows.Scan(&sw.Name, &sw.Active, &sw.Note, &sw.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feature switch: %w", err)
		}
		switches = append(switches, sw)
	}
	return switches, rows.Err()
}

func (r *postgresSwitchRepository) Upsert(ctx context.Context, sw *models.FeatureSwitch, overwrite bool) (bool, error) {
	query := `
		INSERT INTO feature_switches (name, active, note) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
		RETURNING updated_at`
	if overwrite {
		query = `
			INSERT INTO feature_switches (name, active, note) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET active = EXCLUDED.active, note = EXCLUDED.note, updated_at = now()
			RETURNING updated_at`
	}

	err := r.db.QueryRowContext(ctx, query, sw.Name, sw.Active, sw.Note).Scan(&sw.UpdatedAt)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("failed to save feature switch %q: %w", sw.Name, err)
}

func (r *postgresSwitchRepository) SetActive(ctx context.Context, name string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feature_switches SET active = $1, updated_at = now() WHERE name = $2`, active, name)
	if err != nil {
		return fmt.Errorf("failed to update feature switch %q: %w", name, err)
	}
	return checkAffectedRows(result, ErrSwitchNotFound)
}
