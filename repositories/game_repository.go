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
	ErrGameNotFound         = errors.New("game not found")
	ErrGameInvalid          = errors.New("game violates a team, time or status constraint")
	ErrGameReferenceInvalid = errors.New("game references a missing season, team, location or choice")
	ErrPeriodNotFound       = errors.New("period not found")
	ErrPeriodConflict       = errors.New("period name already used in this game")
	ErrPeriodInvalid        = errors.New("period duration must be between 1 and 60 minutes")
)

// GameFilter narrows game listings. Zero values mean "any".
type GameFilter struct {
	SeasonID int
	TeamID   int
	Status   models.GameStatus
	From     time.Time
	To       time.Time
}

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, filter GameFilter) ([]models.Game, error)
	UpdateStatus(ctx context.Context, id int, status models.GameStatus) error
	Delete(ctx context.Context, id int) error

	// SetRoster replaces the players of side and records its starting goalie.
	SetRoster(ctx context.Context, exec SQLExecutor, gameID int, side models.Side, playerIDs []int, goalieID *int) error
	// GetRoster returns the player ids of each side.
	GetRoster(ctx context.Context, gameID int) (home, away []int, err error)

	CreatePeriods(ctx context.Context, exec SQLExecutor, periods []models.Period) error
	GetPeriod(ctx context.Context, id int) (*models.Period, error)
	ListPeriods(ctx context.Context, gameID int) ([]models.Period, error)
	FinishPeriod(ctx context.Context, id int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func mapGameWriteError(err error) error {
	if _, ok := isCheckViolation(err); ok {
		return ErrGameInvalid
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return ErrGameReferenceInvalid
	}
	return err
}

const gameColumns = `
	id, kind, season_id, home_team_id, away_team_id, team_id, type_id, point_value_id, location_id,
	start_at, end_at, timezone, status, created_by, home_starting_goalie_id, away_starting_goalie_id, created_at`

func scanGame(row rowScanner, g *models.Game) error {
	var teamID, createdBy, homeGoalie, awayGoalie sql.NullInt64
	err := row.Scan(
		&g.ID, &g.Kind, &g.SeasonID, &g.HomeTeamID, &g.AwayTeamID, &teamID, &g.TypeID, &g.PointValueID, &g.LocationID,
		&g.Start, &g.End, &g.Timezone, &g.Status, &createdBy, &homeGoalie, &awayGoalie, &g.CreatedAt,
	)
	if err != nil {
		return err
	}
	g.TeamID = intPtr(teamID)
	g.CreatedBy = intPtr(createdBy)
	g.HomeStartingGoalieID = intPtr(homeGoalie)
	g.AwayStartingGoalieID = intPtr(awayGoalie)
	return nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Game) error {
	query := `
		INSERT INTO games (kind, season_id, home_team_id, away_team_id, team_id, type_id, point_value_id,
			location_id, start_at, end_at, timezone, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		g.Kind,
		g.SeasonID,
		g.HomeTeamID,
		g.AwayTeamID,
		nullableInt(g.TeamID),
		g.TypeID,
		g.PointValueID,
		g.LocationID,
		g.Start,
		g.End,
		g.Timezone,
		g.Status,
		nullableInt(g.CreatedBy),
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return mapGameWriteError(err)
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	var g models.Game
	if err := scanGame(r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id), &g); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return &g, nil
}

func (r *postgresGameRepository) List(ctx context.Context, f GameFilter) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE ($1 = 0 OR season_id = $1)
		  AND ($2 = 0 OR home_team_id = $2 OR away_team_id = $2)
		  AND ($3 = '' OR status = $3)
		  AND ($4::timestamptz IS NULL OR start_at >= $4)
		  AND ($5::timestamptz IS NULL OR start_at < $5)
		ORDER BY start_at ASC`

	rows, err := r.db.QueryContext(ctx, query, f.SeasonID, f.TeamID, string(f.Status), nullableTime(f.From), nullableTime(f.To))
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var g models.Game
		if err := scanGame(rows, &g); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func (r *postgresGameRepository) UpdateStatus(ctx context.Context, id int, status models.GameStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE games SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return mapGameWriteError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) SetRoster(ctx context.Context, exec SQLExecutor, gameID int, side models.Side, playerIDs []int, goalieID *int) error {
	db := executor(r.db, exec)

	goalieColumn := "home_starting_goalie_id"
	if side == models.SideAway {
		goalieColumn = "away_starting_goalie_id"
	}
	result, err := db.ExecContext(ctx, `UPDATE games SET `+goalieColumn+` = $1 WHERE id = $2`, nullableInt(goalieID), gameID)
	if err != nil {
		return mapGameWriteError(err)
	}
	if err := checkAffectedRows(result, ErrGameNotFound); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = $1 AND side = $2`, gameID, side); err != nil {
		return fmt.Errorf("failed to clear %s roster of game %d: %w", side, gameID, err)
	}
	if len(playerIDs) == 0 {
		return nil
	}
	ids := make(pq.Int64Array, len(playerIDs))
	for i, id := range playerIDs {
		ids[i] = int64(id)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO game_players (game_id, player_id, side) SELECT $1, unnest($2::int[]), $3
		 ON CONFLICT (game_id, player_id) DO UPDATE SET side = EXCLUDED.side`,
		gameID, ids, side)
	if err != nil {
		return mapGameWriteError(err)
	}
	return nil
}

func (r *postgresGameRepository) GetRoster(ctx context.Context, gameID int) ([]int, []int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, side FROM game_players WHERE game_id = $1 ORDER BY player_id`, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get roster of game %d: %w", gameID, err)
	}
	defer rows.Close()

	home, away := make([]int, 0), make([]int, 0)
	for rows.Next() {
		var id int
		var side models.Side
		if err := rows.Scan(&id, &side); err != nil {
			return nil, nil, fmt.Errorf("failed to scan game player: %w", err)
		}
		if side == models.SideAway {
			away = append(away, id)
		} else {
			home = append(home, id)
		}
	}
	return home, away, rows.Err()
}

func (r *postgresGameRepository) CreatePeriods(ctx context.Context, exec SQLExecutor, periods []models.Period) error {
	db := executor(r.db, exec)
	for i := range periods {
		p := &periods[i]
		err := db.QueryRowContext(ctx,
			`INSERT INTO periods (game_id, name, duration, finished) VALUES ($1, $2, $3, $4) RETURNING id`,
			p.GameID, p.Name, p.Duration, p.Finished,
		).Scan(&p.ID)
		if err != nil {
			if _, ok := isUniqueViolation(err); ok {
				return ErrPeriodConflict
			}
			if _, ok := isCheckViolation(err); ok {
				return ErrPeriodInvalid
			}
			return fmt.Errorf("failed to create period %q: %w", p.Name, err)
		}
	}
	return nil
}

func (r *postgresGameRepository) GetPeriod(ctx context.Context, id int) (*models.Period, error) {
	var p models.Period
	err := r.db.QueryRowContext(ctx,
		`SELECT id, game_id, name, duration, finished FROM periods WHERE id = $1`, id,
	).Scan(&p.ID, &p.GameID, &p.Name, &p.Duration, &p.Finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to get period %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresGameRepository) ListPeriods(ctx context.Context, gameID int) ([]models.Period, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, name, duration, finished FROM periods WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods of game %d: %w", gameID, err)
	}
	defer rows.Close()

	periods := make([]models.Period, 0)
	for rows.Next() {
		var p models.Period
		if err := rows.Scan(&p.ID, &p.GameID, &p.Name, &p.Duration, &p.Finished); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *postgresGameRepository) FinishPeriod(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE periods SET finished = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to finish period %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPeriodNotFound)
}
