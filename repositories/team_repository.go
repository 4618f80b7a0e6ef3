package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrTeamNotFound            = errors.New("team not found")
	ErrTeamNameConflict        = errors.New("team name conflict in division")
	ErrTeamDivisionInvalid     = errors.New("team division is invalid")
	ErrTeamOrganizationInvalid = errors.New("team organization is invalid")
)

// TeamFilter narrows team listings. Zero values mean "any".
type TeamFilter struct {
	DivisionID     int
	LeagueID       int
	OrganizationID int
	ActiveOnly     bool
}

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter TeamFilter) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	SetLogo(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func mapTeamWriteError(err error) error {
	if constraint, ok := isUniqueViolation(err); ok && constraint == "teams_name_division_id_key" {
		return ErrTeamNameConflict
	}
	if constraint, ok := isForeignKeyViolation(err); ok {
		switch constraint {
		case "teams_division_id_fkey":
			return ErrTeamDivisionInvalid
		case "teams_organization_id_fkey":
			return ErrTeamOrganizationInvalid
		}
	}
	return err
}

const teamColumns = `t.id, t.name, t.slug, t.website, t.division_id, t.organization_id, t.is_active, t.logo_key`

func scanTeam(row rowScanner, t *models.Team) error {
	var org sql.NullInt64
	var logo sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Website, &t.DivisionID, &org, &t.IsActive, &logo); err != nil {
		return err
	}
	t.OrganizationID = intPtr(org)
	t.LogoKey = stringPtr(logo)
	return nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, slug, website, division_id, organization_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		team.Name,
		team.Slug,
		team.Website,
		team.DivisionID,
		nullableInt(team.OrganizationID),
		team.IsActive,
	).Scan(&team.ID)
	if err != nil {
		return mapTeamWriteError(err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	var team models.Team
	err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams t WHERE t.id = $1`, id), &team)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return &team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, f TeamFilter) ([]models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN divisions d ON d.id = t.division_id
		WHERE ($1 = 0 OR t.division_id = $1)
		  AND ($2 = 0 OR d.league_id = $2)
		  AND ($3 = 0 OR t.organization_id = $3)
		  AND (NOT $4 OR t.is_active)
		ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, f.DivisionID, f.LeagueID, f.OrganizationID, f.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := scanTeam(rows, &team); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			slug = $2,
			website = $3,
			division_id = $4,
			organization_id = $5,
			is_active = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.Slug,
		team.Website,
		team.DivisionID,
		nullableInt(team.OrganizationID),
		team.IsActive,
		team.ID,
	)
	if err != nil {
		return mapTeamWriteError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) SetLogo(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to set logo of team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
