package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrSeasonNotFound      = errors.New("season not found")
	ErrSeasonConflict      = errors.New("season with the same league and dates already exists")
	ErrSeasonDatesInvalid  = errors.New("season end date must be after start date")
	ErrSeasonLeagueInvalid = errors.New("season league is invalid")
	ErrSeasonTeamInvalid   = errors.New("season team is invalid")
)

type SeasonRepository interface {
	Create(ctx context.Context, exec SQLExecutor, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	List(ctx context.Context, leagueID int) ([]models.Season, error)
	Update(ctx context.Context, exec SQLExecutor, season *models.Season) error
	SetTeams(ctx context.Context, exec SQLExecutor, seasonID int, teamIDs []int) error
	Delete(ctx context.Context, id int) error
	// Exists reports whether league already has a season with exactly these dates.
	Exists(ctx context.Context, leagueID int, start, end time.Time) (bool, error)
	// ListEndingBetween returns seasons whose end date lies in (from, to].
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Season, error)
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func mapSeasonWriteError(err error) error {
	if _, ok := isUniqueViolation(err); ok {
		return ErrSeasonConflict
	}
	if constraint, ok := isCheckViolation(err); ok && constraint == "seasons_dates_check" {
		return ErrSeasonDatesInvalid
	}
	if constraint, ok := isForeignKeyViolation(err); ok {
		if constraint == "season_teams_team_id_fkey" {
			return ErrSeasonTeamInvalid
		}
		return ErrSeasonLeagueInvalid
	}
	return err
}

const seasonSelect = `
	SELECT s.id, s.league_id, s.start_date, s.end_date, s.expiration_reminder_sent, s.created_at,
		COALESCE(array_agg(st.team_id ORDER BY st.team_id) FILTER (WHERE st.team_id IS NOT NULL), '{}')
	FROM seasons s
	LEFT JOIN season_teams st ON st.season_id = s.id`

func scanSeason(row rowScanner, s *models.Season) error {
	var teamIDs pq.Int64Array
	if err := row.Scan(&s.ID, &s.LeagueID, &s.StartDate, &s.EndDate, &s.ExpirationReminderSent, &s.CreatedAt, &teamIDs); err != nil {
		return err
	}
	s.TeamIDs = make([]int, len(teamIDs))
	for i, id := range teamIDs {
		s.TeamIDs[i] = int(id)
	}
	return nil
}

func (r *postgresSeasonRepository) querySeasons(ctx context.Context, query string, args ...interface{}) ([]models.Season, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	seasons := make([]models.Season, 0)
	for rows.Next() {
		var s models.Season
		if err := scanSeason(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func (r *postgresSeasonRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Season) error {
	db := executor(r.db, exec)
	query := `
		INSERT INTO seasons (league_id, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := db.QueryRowContext(ctx, query, s.LeagueID, s.StartDate, s.EndDate).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return mapSeasonWriteError(err)
	}
	return r.SetTeams(ctx, db, s.ID, s.TeamIDs)
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	var s models.Season
	row := r.db.QueryRowContext(ctx, seasonSelect+` WHERE s.id = $1 GROUP BY s.id`, id)
	if err := scanSeason(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to get season %d: %w", id, err)
	}
	return &s, nil
}

func (r *postgresSeasonRepository) List(ctx context.Context, leagueID int) ([]models.Season, error) {
	return r.querySeasons(ctx,
		seasonSelect+` WHERE ($1 = 0 OR s.league_id = $1) GROUP BY s.id ORDER BY s.start_date DESC`,
		leagueID)
}

func (r *postgresSeasonRepository) Update(ctx context.Context, exec SQLExecutor, s *models.Season) error {
	db := executor(r.db, exec)
	query := `
		UPDATE seasons SET league_id = $1, start_date = $2, end_date = $3, expiration_reminder_sent = $4
		WHERE id = $5`

	result, err := db.ExecContext(ctx, query, s.LeagueID, s.StartDate, s.EndDate, s.ExpirationReminderSent, s.ID)
	if err != nil {
		return mapSeasonWriteError(err)
	}
	if err := checkAffectedRows(result, ErrSeasonNotFound); err != nil {
		return err
	}
	return r.SetTeams(ctx, db, s.ID, s.TeamIDs)
}

func (r *postgresSeasonRepository) SetTeams(ctx context.Context, exec SQLExecutor, seasonID int, teamIDs []int) error {
	db := executor(r.db, exec)
	if _, err := db.ExecContext(ctx, `DELETE FROM season_teams WHERE season_id = $1`, seasonID); err != nil {
		return fmt.Errorf("failed to clear teams of season %d: %w", seasonID, err)
	}
	if len(teamIDs) == 0 {
		return nil
	}

	ids := make(pq.Int64Array, len(teamIDs))
	for i, id := range teamIDs {
		ids[i] = int64(id)
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO season_teams (season_id, team_id) SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`,
		seasonID, ids)
	if err != nil {
		return mapSeasonWriteError(err)
	}
	return nil
}

func (r *postgresSeasonRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete season %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) Exists(ctx context.Context, leagueID int, start, end time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM seasons WHERE league_id = $1 AND start_date = $2 AND end_date = $3)`,
		leagueID, start, end,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check season existence: %w", err)
	}
	return exists, nil
}

func (r *postgresSeasonRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Season, error) {
	return r.querySeasons(ctx,
		seasonSelect+` WHERE s.end_date > $1 AND s.end_date <= $2 GROUP BY s.id ORDER BY s.end_date ASC`,
		from, to)
}
