package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrRegistrationNotFound     = errors.New("sport registration not found")
	ErrRegistrationConflict     = errors.New("user is already registered for this sport")
	ErrRegistrationRolesInvalid = errors.New("sport registration must keep at least one role")
	ErrRegistrationRefInvalid   = errors.New("sport registration references a missing user or sport")
)

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.SportRegistration) error
	GetByID(ctx context.Context, id int) (*models.SportRegistration, error)
	// GetForUpdate loads the registration and locks its row until exec's transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.SportRegistration, error)
	GetByUserAndSport(ctx context.Context, userID, sportID int) (*models.SportRegistration, error)
	ListByUser(ctx context.Context, userID int) ([]models.SportRegistration, error)
	// UpdateRoles stores a new mask and completion flag for the registration.
	UpdateRoles(ctx context.Context, exec SQLExecutor, id int, mask models.RolesMask, complete bool) error
	SetComplete(ctx context.Context, id int, complete bool) error
	// CountIncomplete returns how many of the user's registrations are not yet complete.
	CountIncomplete(ctx context.Context, userID int) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func mapRegistrationWriteError(err error) error {
	if _, ok := isUniqueViolation(err); ok {
		return ErrRegistrationConflict
	}
	if _, ok := isCheckViolation(err); ok {
		return ErrRegistrationRolesInvalid
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return ErrRegistrationRefInvalid
	}
	return err
}

const registrationColumns = `id, user_id, sport_id, roles_mask, is_complete`

func scanRegistration(row rowScanner, reg *models.SportRegistration) error {
	return row.Scan(&reg.ID, &reg.UserID, &reg.SportID, &reg.RolesMask, &reg.IsComplete)
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.SportRegistration) error {
	query := `
		INSERT INTO sport_registrations (user_id, sport_id, roles_mask, is_complete)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query, reg.UserID, reg.SportID, int(reg.RolesMask), reg.IsComplete).Scan(&reg.ID)
	if err != nil {
		return mapRegistrationWriteError(err)
	}
	return nil
}

func (r *postgresRegistrationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.SportRegistration, error) {
	var reg models.SportRegistration
	if err := scanRegistration(r.db.QueryRowContext(ctx, query, args...), &reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find sport registration: %w", err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.SportRegistration, error) {
	return r.findOne(ctx, `SELECT `+registrationColumns+` FROM sport_registrations WHERE id = $1`, id)
}

func (r *postgresRegistrationRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.SportRegistration, error) {
	var reg models.SportRegistration
	row := executor(r.db, exec).QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM sport_registrations WHERE id = $1 FOR UPDATE`, id)
	if err := scanRegistration(row, &reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to lock sport registration %d: %w", id, err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) GetByUserAndSport(ctx context.Context, userID, sportID int) (*models.SportRegistration, error) {
	return r.findOne(ctx,
		`SELECT `+registrationColumns+` FROM sport_registrations WHERE user_id = $1 AND sport_id = $2`,
		userID, sportID)
}

func (r *postgresRegistrationRepository) ListByUser(ctx context.Context, userID int) ([]models.SportRegistration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM sport_registrations WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sport registrations of user %d: %w", userID, err)
	}
	defer rows.Close()

	regs := make([]models.SportRegistration, 0)
	for rows.Next() {
		var reg models.SportRegistration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, fmt.Errorf("failed to scan sport registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *postgresRegistrationRepository) UpdateRoles(ctx context.Context, exec SQLExecutor, id int, mask models.RolesMask, complete bool) error {
	result, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE sport_registrations SET roles_mask = $1, is_complete = $2 WHERE id = $3`,
		int(mask), complete, id)
	if err != nil {
		return mapRegistrationWriteError(err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) SetComplete(ctx context.Context, id int, complete bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sport_registrations SET is_complete = $1 WHERE id = $2`, complete, id)
	if err != nil {
		return fmt.Errorf("failed to update sport registration %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) CountIncomplete(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sport_registrations WHERE user_id = $1 AND NOT is_complete`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count incomplete registrations of user %d: %w", userID, err)
	}
	return n, nil
}
