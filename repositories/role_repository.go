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
	ErrRoleRecordNotFound   = errors.New("role record not found")
	ErrRoleRecordConflict   = errors.New("user already holds this role here")
	ErrRoleRecordRefInvalid = errors.New("role record references a missing user, team, league or sport")
	ErrJerseyNumberTaken    = errors.New("jersey number is already taken by an active player of the team")
	ErrJerseyNumberInvalid  = errors.New("jersey number must be between 0 and 99")
)

// RoleRepository stores the per-role records (players, coaches, referees, managers, scorekeepers).
type RoleRepository interface {
	CreatePlayer(ctx context.Context, p *models.Player) error
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context, filter models.RoleFilter) ([]models.Player, error)
	ListPlayersByIDs(ctx context.Context, ids []int) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, p *models.Player) error

	CreateCoach(ctx context.Context, c *models.Coach) error
	GetCoach(ctx context.Context, id int) (*models.Coach, error)
	ListCoaches(ctx context.Context, filter models.RoleFilter) ([]models.Coach, error)
	UpdateCoach(ctx context.Context, c *models.Coach) error

	CreateReferee(ctx context.Context, ref *models.Referee) error
	GetReferee(ctx context.Context, id int) (*models.Referee, error)
	ListReferees(ctx context.Context, filter models.RoleFilter) ([]models.Referee, error)

	CreateManager(ctx context.Context, m *models.Manager) error
	GetManager(ctx context.Context, id int) (*models.Manager, error)
	ListManagers(ctx context.Context, filter models.RoleFilter) ([]models.Manager, error)

	CreateScorekeeper(ctx context.Context, s *models.Scorekeeper) error
	GetScorekeeper(ctx context.Context, id int) (*models.Scorekeeper, error)
	ListScorekeepers(ctx context.Context, filter models.RoleFilter) ([]models.Scorekeeper, error)

	// SetActive flips the active flag of the record id of role.
	SetActive(ctx context.Context, role models.Role, id int, active bool) error
	// DeactivateForUserSport deactivates every active record of role the user holds in sport.
	DeactivateForUserSport(ctx context.Context, exec SQLExecutor, role models.Role, userID, sportID int) (int64, error)
	// CountActive counts the active records of role matching filter.
	CountActive(ctx context.Context, role models.Role, filter models.RoleFilter) (int, error)
}

type postgresRoleRepository struct {
	db *sql.DB
}

func NewPostgresRoleRepository(db *sql.DB) RoleRepository {
	return &postgresRoleRepository{db: db}
}

// roleTable describes how a role's records reach their team, league and sport.
type roleTable struct {
	name   string
	from   string
	team   string
	league string
	sport  string
}

var roleTables = map[models.Role]roleTable{
	models.RolePlayer: {
		name:   "players",
		from:   `players x JOIN teams t ON t.id = x.team_id JOIN divisions d ON d.id = t.division_id`,
		team:   "x.team_id",
		league: "d.league_id",
		sport:  "x.sport_id",
	},
	models.RoleCoach: {
		name:   "coaches",
		from:   `coaches x JOIN teams t ON t.id = x.team_id JOIN divisions d ON d.id = t.division_id JOIN leagues l ON l.id = d.league_id`,
		team:   "x.team_id",
		league: "d.league_id",
		sport:  "l.sport_id",
	},
	models.RoleReferee: {
		name:   "referees",
		from:   `referees x JOIN leagues l ON l.id = x.league_id`,
		team:   "0",
		league: "x.league_id",
		sport:  "l.sport_id",
	},
	models.RoleManager: {
		name:   "managers",
		from:   `managers x JOIN teams t ON t.id = x.team_id JOIN divisions d ON d.id = t.division_id JOIN leagues l ON l.id = d.league_id`,
		team:   "x.team_id",
		league: "d.league_id",
		sport:  "l.sport_id",
	},
	models.RoleScorekeeper: {
		name:   "scorekeepers",
		from:   `scorekeepers x`,
		team:   "0",
		league: "0",
		sport:  "x.sport_id",
	},
}

func tableFor(role models.Role) (roleTable, error) {
	t, ok := roleTables[role]
	if !ok {
		return roleTable{}, fmt.Errorf("%w: %q", models.ErrUnknownRole, role)
	}
	return t, nil
}

// where renders the filter clause; its placeholders are $1..$5 in filterArgs order.
func (t roleTable) where() string {
	return fmt.Sprintf(`
		WHERE ($1 = 0 OR x.user_id = $1)
		  AND ($2 = 0 OR %s = $2)
		  AND ($3 = 0 OR %s = $3)
		  AND ($4 = 0 OR %s = $4)
		  AND (NOT $5 OR x.is_active)`, t.team, t.sport, t.league)
}

func filterArgs(f models.RoleFilter) []interface{} {
	return []interface{}{f.UserID, f.TeamID, f.SportID, f.LeagueID, f.ActiveOnly}
}

func mapRoleWriteError(err error) error {
	if constraint, ok := isUniqueViolation(err); ok {
		if constraint == "players_team_id_jersey_number_active_key" {
			return ErrJerseyNumberTaken
		}
		return ErrRoleRecordConflict
	}
	if constraint, ok := isCheckViolation(err); ok && constraint == "players_jersey_number_check" {
		return ErrJerseyNumberInvalid
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return ErrRoleRecordRefInvalid
	}
	return err
}

func notFoundOr(err error, what string, id int) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoleRecordNotFound
	}
	return fmt.Errorf("failed to get %s %d: %w", what, id, err)
}

// --- players ---

const playerColumns = `x.id, x.user_id, x.sport_id, x.team_id, x.jersey_number, x.position, x.handedness, x.is_active`

func scanPlayer(row rowScanner, p *models.Player) error {
	return row.Scan(&p.ID, &p.UserID, &p.SportID, &p.TeamID, &p.JerseyNumber, &p.Position, &p.Handedness, &p.IsActive)
}

func (r *postgresRoleRepository) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := scanPlayer(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresRoleRepository) CreatePlayer(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (user_id, sport_id, team_id, jersey_number, position, handedness, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.SportID, p.TeamID, p.JerseyNumber, p.Position, p.Handedness, p.IsActive,
	).Scan(&p.ID)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return nil
}

func (r *postgresRoleRepository) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	var p models.Player
	if err := scanPlayer(r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players x WHERE x.id = $1`, id), &p); err != nil {
		return nil, notFoundOr(err, "player", id)
	}
	return &p, nil
}

func (r *postgresRoleRepository) ListPlayers(ctx context.Context, f models.RoleFilter) ([]models.Player, error) {
	t := roleTables[models.RolePlayer]
	query := `SELECT ` + playerColumns + ` FROM ` + t.from + t.where() + ` ORDER BY x.team_id, x.jersey_number`
	return r.queryPlayers(ctx, query, filterArgs(f)...)
}

func (r *postgresRoleRepository) ListPlayersByIDs(ctx context.Context, ids []int) ([]models.Player, error) {
	if len(ids) == 0 {
		return []models.Player{}, nil
	}
	arr := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	return r.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players x WHERE x.id = ANY($1) ORDER BY x.id`, arr)
}

func (r *postgresRoleRepository) UpdatePlayer(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players SET team_id = $1, jersey_number = $2, position = $3, handedness = $4, is_active = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query, p.TeamID, p.JerseyNumber, p.Position, p.Handedness, p.IsActive, p.ID)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return checkAffectedRows(result, ErrRoleRecordNotFound)
}

// --- coaches ---

func (r *postgresRoleRepository) CreateCoach(ctx context.Context, c *models.Coach) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO coaches (user_id, team_id, position, is_active) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.UserID, c.TeamID, c.Position, c.IsActive,
	).Scan(&c.ID)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return nil
}

func (r *postgresRoleRepository) GetCoach(ctx context.Context, id int) (*models.Coach, error) {
	var c models.Coach
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, team_id, position, is_active FROM coaches WHERE id = $1`, id,
	).Scan(&c.ID, &c.UserID, &c.TeamID, &c.Position, &c.IsActive)
	if err != nil {
		return nil, notFoundOr(err, "coach", id)
	}
	return &c, nil
}

func (r *postgresRoleRepository) ListCoaches(ctx context.Context, f models.RoleFilter) ([]models.Coach, error) {
	t := roleTables[models.RoleCoach]
	rows, err := r.db.QueryContext(ctx,
		`SELECT x.id, x.user_id, x.team_id, x.position, x.is_active FROM `+t.from+t.where()+` ORDER BY x.team_id, x.id`,
		filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	defer rows.Close()

	coaches := make([]models.Coach, 0)
	for rows.Next() {
		var c models.Coach
		if err := rows.Scan(&c.ID, &c.UserID, &c.TeamID, &c.Position, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan coach: %w", err)
		}
		coaches = append(coaches, c)
	}
	return coaches, rows.Err()
}

func (r *postgresRoleRepository) UpdateCoach(ctx context.Context, c *models.Coach) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE coaches SET team_id = $1, position = $2, is_active = $3 WHERE id = $4`,
		c.TeamID, c.Position, c.IsActive, c.ID)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return checkAffectedRows(result, ErrRoleRecordNotFound)
}

// --- referees ---

func (r *postgresRoleRepository) CreateReferee(ctx context.Context, ref *models.Referee) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO referees (user_id, league_id, is_active) VALUES ($1, $2, $3) RETURNING id`,
		ref.UserID, ref.LeagueID, ref.IsActive,
	).Scan(&ref.ID)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return nil
}

func (r *postgresRoleRepository) GetReferee(ctx context.Context, id int) (*models.Referee, error) {
	var ref models.Referee
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, league_id, is_active FROM referees WHERE id = $1`, id,
	).Scan(&ref.ID, &ref.UserID, &ref.LeagueID, &ref.IsActive)
	if err != nil {
		return nil, notFoundOr(err, "referee", id)
	}
	return &ref, nil
}

func (r *postgresRoleRepository) ListReferees(ctx context.Context, f models.RoleFilter) ([]models.Referee, error) {
	t := roleTables[models.RoleReferee]
	rows, err := r.db.QueryContext(ctx,
		`SELECT x.id, x.user_id, x.league_id, x.is_active FROM `+t.from+t.where()+` ORDER BY x.league_id, x.id`,
		filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list referees: %w", err)
	}
	defer rows.Close()

	refs := make([]models.Referee, 0)
	for rows.Next() {
		var ref models.Referee
		if err := rows.Scan(&ref.ID, &ref.UserID, &ref.LeagueID, &ref.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan referee: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// --- managers ---

func (r *postgresRoleRepository) CreateManager(ctx context.Context, m *models.Manager) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO managers (user_id, team_id, is_active) VALUES ($1, $2, $3) RETURNING id`,
		m.UserID, m.TeamID, m.IsActive,
	).Scan(&m.ID)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return nil
}

func (r *postgresRoleRepository) GetManager(ctx context.Context, id int) (*models.Manager, error) {
	var m models.Manager
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, team_id, is_active FROM managers WHERE id = $1`, id,
	).Scan(&m.ID, &m.UserID, &m.TeamID, &m.IsActive)
	if err != nil {
		return nil, notFoundOr(err, "manager", id)
	}
	return &m, nil
}

func (r *postgresRoleRepository) ListManagers(ctx context.Context, f models.RoleFilter) ([]models.Manager, error) {
	t := roleTables[models.RoleManager]
	rows, err := r.db.QueryContext(ctx,
		`SELECT x.id, x.user_id, x.team_id, x.is_active FROM `+t.from+t.where()+` ORDER BY x.team_id, x.id`,
		filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	managers := make([]models.Manager, 0)
	for rows.Next() {
		var m models.Manager
		if err := rows.Scan(&m.ID, &m.UserID, &m.TeamID, &m.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}

// --- scorekeepers ---

func (r *postgresRoleRepository) CreateScorekeeper(ctx context.Context, s *models.Scorekeeper) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO scorekeepers (user_id, sport_id, is_active) VALUES ($1, $2, $3) RETURNING id`,
		s.UserID, s.SportID, s.IsActive,
	).Scan(&s.ID)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return nil
}

func (r *postgresRoleRepository) GetScorekeeper(ctx context.Context, id int) (*models.Scorekeeper, error) {
	var s models.Scorekeeper
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, sport_id, is_active FROM scorekeepers WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.SportID, &s.IsActive)
	if err != nil {
		return nil, notFoundOr(err, "scorekeeper", id)
	}
	return &s, nil
}

func (r *postgresRoleRepository) ListScorekeepers(ctx context.Context, f models.RoleFilter) ([]models.Scorekeeper, error) {
	t := roleTables[models.RoleScorekeeper]
	rows, err := r.db.QueryContext(ctx,
		`SELECT x.id, x.user_id, x.sport_id, x.is_active FROM `+t.from+t.where()+` ORDER BY x.sport_id, x.id`,
		filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scorekeepers: %w", err)
	}
	defer rows.Close()

	keepers := make([]models.Scorekeeper, 0)
	for rows.Next() {
		var s models.Scorekeeper
		if err := rows.Scan(&s.ID, &s.UserID, &s.SportID, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan scorekeeper: %w", err)
		}
		keepers = append(keepers, s)
	}
	return keepers, rows.Err()
}

// --- shared ---

func (r *postgresRoleRepository) SetActive(ctx context.Context, role models.Role, id int, active bool) error {
	t, err := tableFor(role)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `UPDATE `+t.name+` SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return mapRoleWriteError(err)
	}
	return checkAffectedRows(result, ErrRoleRecordNotFound)
}

func (r *postgresRoleRepository) DeactivateForUserSport(ctx context.Context, exec SQLExecutor, role models.Role, userID, sportID int) (int64, error) {
	t, err := tableFor(role)
	if err != nil {
		return 0, err
	}
	query := `
		UPDATE ` + t.name + ` SET is_active = FALSE
		WHERE id IN (SELECT x.id FROM ` + t.from + ` WHERE x.user_id = $1 AND ` + t.sport + ` = $2 AND x.is_active)`

	result, err := executor(r.db, exec).ExecContext(ctx, query, userID, sportID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate %s of user %d: %w", t.name, userID, err)
	}
	return result.RowsAffected()
}

func (r *postgresRoleRepository) CountActive(ctx context.Context, role models.Role, f models.RoleFilter) (int, error) {
	t, err := tableFor(role)
	if err != nil {
		return 0, err
	}
	f.ActiveOnly = true

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM `+t.from+t.where(), filterArgs(f)...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.name, err)
	}
	return n, nil
}
