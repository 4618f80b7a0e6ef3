package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrPenaltyTypeNotFound     = errors.New("penalty type not found")
	ErrPenaltyTypeCodeConflict = errors.New("penalty type code already used for this sport")
	ErrPenaltyTypeInUse        = errors.New("penalty type cannot be deleted as penalties reference it")
	ErrPenaltyNotFound         = errors.New("penalty not found")
	ErrPenaltyReferenceInvalid = errors.New("penalty references a missing game, period, team, player or type")
)

type PenaltyRepository interface {
	CreateType(ctx context.Context, pt *models.PenaltyType) error
	GetType(ctx context.Context, id int) (*models.PenaltyType, error)
	ListTypes(ctx context.Context, sportID int) ([]models.PenaltyType, error)
	DeleteType(ctx context.Context, id int) error

	Create(ctx context.Context, p *models.Penalty) error
	ListByGame(ctx context.Context, gameID int) ([]models.Penalty, error)
	Delete(ctx context.Context, id int) error
}

type postgresPenaltyRepository struct {
	db *sql.DB
}

func NewPostgresPenaltyRepository(db *sql.DB) PenaltyRepository {
	return &postgresPenaltyRepository{db: db}
}

func (r *postgresPenaltyRepository) CreateType(ctx context.Context, pt *models.PenaltyType) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO penalty_types (sport_id, name, code, duration) VALUES ($1, $2, $3, $4) RETURNING id`,
		pt.SportID, pt.Name, pt.Code, pt.Duration,
	).Scan(&pt.ID)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == "penalty_types_sport_id_code_key" {
			return ErrPenaltyTypeCodeConflict
		}
		if _, ok := isForeignKeyViolation(err); ok {
			return ErrSportNotFound
		}
		return fmt.Errorf("failed to create penalty type: %w", err)
	}
	return nil
}

func (r *postgresPenaltyRepository) GetType(ctx context.Context, id int) (*models.PenaltyType, error) {
	var pt models.PenaltyType
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sport_id, name, code, duration FROM penalty_types WHERE id = $1`, id,
	).Scan(&pt.ID, &pt.SportID, &pt.Name, &pt.Code, &pt.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPenaltyTypeNotFound
		}
		return nil, fmt.Errorf("failed to get penalty type %d: %w", id, err)
	}
	return &pt, nil
}

func (r *postgresPenaltyRepository) ListTypes(ctx context.Context, sportID int) ([]models.PenaltyType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sport_id, name, code, duration FROM penalty_types WHERE ($1 = 0 OR sport_id = $1) ORDER BY name`,
		sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalty types: %w", err)
	}
	defer rows.Close()

	types := make([]models.PenaltyType, 0)
	for rows.Next() {
		var pt models.PenaltyType
		if err := rows.Scan(&pt.ID, &pt.SportID, &pt.Name, &pt.Code, &pt.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan penalty type: %w", err)
		}
		types = append(types, pt)
	}
	return types, rows.Err()
}

func (r *postgresPenaltyRepository) DeleteType(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM penalty_types WHERE id = $1`, id)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return ErrPenaltyTypeInUse
		}
		return fmt.Errorf("failed to delete penalty type %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPenaltyTypeNotFound)
}

func (r *postgresPenaltyRepository) Create(ctx context.Context, p *models.Penalty) error {
	query := `
		INSERT INTO penalties (game_id, period_id, team_id, player_id, type_id, duration, time_in_period, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.GameID, p.PeriodID, p.TeamID, p.PlayerID, p.TypeID, p.Duration, p.TimeInPeriod, nullableInt(p.CreatedBy),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return ErrPenaltyReferenceInvalid
		}
		return fmt.Errorf("failed to create penalty: %w", err)
	}
	return nil
}

func (r *postgresPenaltyRepository) ListByGame(ctx context.Context, gameID int) ([]models.Penalty, error) {
	query := `
		SELECT p.id, p.game_id, p.period_id, p.team_id, p.player_id, p.type_id, p.duration, p.time_in_period,
			p.created_by, p.created_at, pt.id, pt.sport_id, pt.name, pt.code, pt.duration
		FROM penalties p
		JOIN penalty_types pt ON pt.id = p.type_id
		JOIN periods pe ON pe.id = p.period_id
		WHERE p.game_id = $1
		ORDER BY pe.id, p.time_in_period`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalties of game %d: %w", gameID, err)
	}
	defer rows.Close()

	penalties := make([]models.Penalty, 0)
	for rows.Next() {
		var p models.Penalty
		var pt models.PenaltyType
		var createdBy sql.NullInt64
		err := rows.Scan(&p.ID, &p.GameID, &p.PeriodID, &p.TeamID, &p.PlayerID, &p.TypeID, &p.Duration, &p.TimeInPeriod,
			&createdBy, &p.CreatedAt, &pt.ID, &pt.SportID, &pt.Name, &pt.Code, &pt.Duration)
		if err != nil {
			return nil, fmt.Errorf("failed to scan penalty: %w", err)
		}
		p.CreatedBy = intPtr(createdBy)
		p.Type = &pt
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

func (r *postgresPenaltyRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM penalties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete penalty %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPenaltyNotFound)
}
