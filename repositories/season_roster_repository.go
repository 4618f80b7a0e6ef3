package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrRosterNotFound         = errors.New("season roster not found")
	ErrRosterNameConflict     = errors.New("season roster name already used for this team and season")
	ErrRosterDefaultConflict  = errors.New("team already has a default roster for this season")
	ErrRosterReferenceInvalid = errors.New("season roster references a missing season, team or player")
)

type SeasonRosterRepository interface {
	Create(ctx context.Context, exec SQLExecutor, roster *models.SeasonRoster) error
	GetByID(ctx context.Context, id int) (*models.SeasonRoster, error)
	List(ctx context.Context, seasonID, teamID int) ([]models.SeasonRoster, error)
	Update(ctx context.Context, exec SQLExecutor, roster *models.SeasonRoster) error
	Delete(ctx context.Context, id int) error
	// ClearDefault unsets the default flag of every roster of the team and season except exceptID.
	ClearDefault(ctx context.Context, exec SQLExecutor, seasonID, teamID, exceptID int) error
}

type postgresSeasonRosterRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRosterRepository(db *sql.DB) SeasonRosterRepository {
	return &postgresSeasonRosterRepository{db: db}
}

func mapRosterWriteError(err error) error {
	if constraint, ok := isUniqueViolation(err); ok {
		if constraint == "season_rosters_default_key" {
			return ErrRosterDefaultConflict
		}
		return ErrRosterNameConflict
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return ErrRosterReferenceInvalid
	}
	return err
}

const rosterSelect = `
	SELECT r.id, r.name, r.season_id, r.team_id, r.is_default, r.created_by, r.created_at,
		COALESCE(array_agg(rp.player_id ORDER BY rp.player_id) FILTER (WHERE rp.player_id IS NOT NULL), '{}')
	FROM season_rosters r
	LEFT JOIN season_roster_players rp ON rp.roster_id = r.id`

func scanRoster(row rowScanner, r *models.SeasonRoster) error {
	var createdBy sql.NullInt64
	var playerIDs pq.Int64Array
	if err := row.Scan(&r.ID, &r.Name, &r.SeasonID, &r.TeamID, &r.Default, &createdBy, &r.CreatedAt, &playerIDs); err != nil {
		return err
	}
	r.CreatedBy = intPtr(createdBy)
	r.PlayerIDs = make([]int, len(playerIDs))
	for i, id := range playerIDs {
		r.PlayerIDs[i] = int(id)
	}
	return nil
}

func (r *postgresSeasonRosterRepository) Create(ctx context.Context, exec SQLExecutor, roster *models.SeasonRoster) error {
	db := executor(r.db, exec)
	query := `
		INSERT INTO season_rosters (name, season_id, team_id, is_default, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := db.QueryRowContext(ctx, query,
		roster.Name, roster.SeasonID, roster.TeamID, roster.Default, nullableInt(roster.CreatedBy),
	).Scan(&roster.ID, &roster.CreatedAt)
	if err != nil {
		return mapRosterWriteError(err)
	}
	return r.setPlayers(ctx, db, roster.ID, roster.PlayerIDs)
}

func (r *postgresSeasonRosterRepository) GetByID(ctx context.Context, id int) (*models.SeasonRoster, error) {
	var roster models.SeasonRoster
	err := scanRoster(r.db.QueryRowContext(ctx, rosterSelect+` WHERE r.id = $1 GROUP BY r.id`, id), &roster)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRosterNotFound
		}
		return nil, fmt.Errorf("failed to get season roster %d: %w", id, err)
	}
	return &roster, nil
}

func (r *postgresSeasonRosterRepository) List(ctx context.Context, seasonID, teamID int) ([]models.SeasonRoster, error) {
	query := rosterSelect + `
		WHERE r.season_id = $1 AND ($2 = 0 OR r.team_id = $2)
		GROUP BY r.id
		ORDER BY r.is_default DESC, r.name ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season rosters: %w", err)
	}
	defer rows.Close()

	rosters := make([]models.SeasonRoster, 0)
	for rows.Next() {
		var roster models.SeasonRoster
		if err := scanRoster(rows, &roster); err != nil {
			return nil, fmt.Errorf("failed to scan season roster: %w", err)
		}
		rosters = append(rosters, roster)
	}
	return rosters, rows.Err()
}

func (r *postgresSeasonRosterRepository) Update(ctx context.Context, exec SQLExecutor, roster *models.SeasonRoster) error {
	db := executor(r.db, exec)
	result, err := db.ExecContext(ctx,
		`UPDATE season_rosters SET name = $1, is_default = $2 WHERE id = $3`,
		roster.Name, roster.Default, roster.ID)
	if err != nil {
		return mapRosterWriteError(err)
	}
	if err := checkAffectedRows(result, ErrRosterNotFound); err != nil {
		return err
	}
	return r.setPlayers(ctx, db, roster.ID, roster.PlayerIDs)
}

func (r *postgresSeasonRosterRepository) setPlayers(ctx context.Context, db SQLExecutor, rosterID int, playerIDs []int) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM season_roster_players WHERE roster_id = $1`, rosterID); err != nil {
		return fmt.Errorf("failed to clear players of roster %d: %w", rosterID, err)
	}
	if len(playerIDs) == 0 {
		return nil
	}
	ids := make(pq.Int64Array, len(playerIDs))
	for i, id := range playerIDs {
		ids[i] = int64(id)
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO season_roster_players (roster_id, player_id) SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`,
		rosterID, ids)
	if err != nil {
		return mapRosterWriteError(err)
	}
	return nil
}

func (r *postgresSeasonRosterRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM season_rosters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete season roster %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRosterNotFound)
}

func (r *postgresSeasonRosterRepository) ClearDefault(ctx context.Context, exec SQLExecutor, seasonID, teamID, exceptID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE season_rosters SET is_default = FALSE WHERE season_id = $1 AND team_id = $2 AND id <> $3 AND is_default`,
		seasonID, teamID, exceptID)
	if err != nil {
		return fmt.Errorf("failed to clear default roster: %w", err)
	}
	return nil
}
