package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrLeagueNotFound        = errors.New("league not found")
	ErrLeagueNameConflict    = errors.New("league name conflict")
	ErrLeagueSportInvalid    = errors.New("league sport is invalid")
	ErrDivisionNotFound      = errors.New("division not found")
	ErrDivisionNameConflict  = errors.New("division name conflict")
	ErrDivisionLeagueInvalid = errors.New("division league is invalid")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context, sportID int) ([]models.League, error)
	Update(ctx context.Context, league *models.League) error
	SetLogo(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error

	CreateDivision(ctx context.Context, division *models.Division) error
	GetDivision(ctx context.Context, id int) (*models.Division, error)
	FindDivisionByName(ctx context.Context, leagueID int, name string) (*models.Division, error)
	ListDivisions(ctx context.Context, leagueID int) ([]models.Division, error)
	DeleteDivision(ctx context.Context, id int) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func mapLeagueWriteError(err error) error {
	if _, ok := isUniqueViolation(err); ok {
		return ErrLeagueNameConflict
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return ErrLeagueSportInvalid
	}
	return err
}

const leagueColumns = `id, name, full_name, slug, sport_id, logo_key`

func scanLeague(row rowScanner, l *models.League) error {
	var logo sql.NullString
	if err := row.Scan(&l.ID, &l.Name, &l.FullName, &l.Slug, &l.SportID, &logo); err != nil {
		return err
	}
	l.LogoKey = stringPtr(logo)
	return nil
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `INSERT INTO leagues (name, full_name, slug, sport_id) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, league.Name, league.FullName, league.Slug, league.SportID).Scan(&league.ID)
	if err != nil {
		return mapLeagueWriteError(err)
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	var league models.League
	err := scanLeague(r.db.QueryRowContext(ctx, `SELECT `+leagueColumns+` FROM leagues WHERE id = $1`, id), &league)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}
	return &league, nil
}

func (r *postgresLeagueRepository) List(ctx context.Context, sportID int) ([]models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE ($1 = 0 OR sport_id = $1) ORDER BY full_name ASC`
	rows, err := r.db.QueryContext(ctx, query, sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]models.League, 0)
	for rows.Next() {
		var league models.League
		if err := scanLeague(rows, &league); err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}

func (r *postgresLeagueRepository) Update(ctx context.Context, league *models.League) error {
	query := `UPDATE leagues SET name = $1, full_name = $2, slug = $3, sport_id = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, league.Name, league.FullName, league.Slug, league.SportID, league.ID)
	if err != nil {
		return mapLeagueWriteError(err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) SetLogo(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE leagues SET logo_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to set logo of league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) CreateDivision(ctx context.Context, d *models.Division) error {
	query := `INSERT INTO divisions (name, slug, league_id) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.Name, d.Slug, d.LeagueID).Scan(&d.ID)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == "divisions_name_league_id_key" {
			return ErrDivisionNameConflict
		}
		if _, ok := isForeignKeyViolation(err); ok {
			return ErrDivisionLeagueInvalid
		}
		return fmt.Errorf("failed to create division: %w", err)
	}
	return nil
}

func (r *postgresLeagueRepository) findDivision(ctx context.Context, query string, args ...interface{}) (*models.Division, error) {
	var d models.Division
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.Name, &d.Slug, &d.LeagueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to find division: %w", err)
	}
	return &d, nil
}

func (r *postgresLeagueRepository) GetDivision(ctx context.Context, id int) (*models.Division, error) {
	return r.findDivision(ctx, `SELECT id, name, slug, league_id FROM divisions WHERE id = $1`, id)
}

func (r *postgresLeagueRepository) FindDivisionByName(ctx context.Context, leagueID int, name string) (*models.Division, error) {
	return r.findDivision(ctx,
		`SELECT id, name, slug, league_id FROM divisions WHERE league_id = $1 AND lower(name) = lower($2)`,
		leagueID, name)
}

func (r *postgresLeagueRepository) ListDivisions(ctx context.Context, leagueID int) ([]models.Division, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, league_id FROM divisions WHERE league_id = $1 ORDER BY name ASC`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions of league %d: %w", leagueID, err)
	}
	defer rows.Close()

	divisions := make([]models.Division, 0)
	for rows.Next() {
		var d models.Division
		if err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.LeagueID); err != nil {
			return nil, fmt.Errorf("failed to scan division: %w", err)
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

func (r *postgresLeagueRepository) DeleteDivision(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM divisions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete division %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}
