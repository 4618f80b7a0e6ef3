package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
	ErrProfileNotFound   = errors.New("user profile not found")
	ErrProfileInvalid    = errors.New("user profile violates a constraint")
	ErrTokenNotFound     = errors.New("api token not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *models.UserProfile) error

	GetTokenByUser(ctx context.Context, userID int) (*models.APIToken, error)
	GetUserByToken(ctx context.Context, key string) (*models.User, error)
	CreateToken(ctx context.Context, token *models.APIToken) error
	DeleteToken(ctx context.Context, userID int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `u.id, u.email, u.first_name, u.last_name, u.password_hash, u.is_active, u.is_staff, u.created_at`

func scanUser(row rowScanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsActive, &u.IsStaff, &u.CreatedAt)
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash, is_active, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, args...), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email)
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			email = $1,
			first_name = $2,
			last_name = $3,
			password_hash = $4,
			is_active = $5,
			is_staff = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
		user.ID,
	)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok && constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	query := `
		SELECT user_id, gender, birthday, height, weight, language, timezone, updated_at
		FROM user_profiles
		WHERE user_id = $1`

	var p models.UserProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Gender, &p.Birthday, &p.Height, &p.Weight, &p.Language, &p.Timezone, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile of user %d: %w", userID, err)
	}
	return &p, nil
}

func (r *postgresUserRepository) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, gender, birthday, height, weight, language, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			birthday = EXCLUDED.birthday,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			language = EXCLUDED.language,
			timezone = EXCLUDED.timezone,
			updated_at = now()
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.Gender, p.Birthday, p.Height, p.Weight, p.Language, p.Timezone,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return ErrUserNotFound
		}
		if _, ok := isCheckViolation(err); ok {
			return ErrProfileInvalid
		}
		return fmt.Errorf("failed to save profile of user %d: %w", p.UserID, err)
	}
	return nil
}

func (r *postgresUserRepository) GetTokenByUser(ctx context.Context, userID int) (*models.APIToken, error) {
	var t models.APIToken
	err := r.db.QueryRowContext(ctx,
		`SELECT key, user_id, created_at FROM api_tokens WHERE user_id = $1`, userID,
	).Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token of user %d: %w", userID, err)
	}
	return &t, nil
}

func (r *postgresUserRepository) GetUserByToken(ctx context.Context, key string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM api_tokens t JOIN users u ON u.id = t.user_id WHERE t.key = $1`
	user, err := r.findOne(ctx, query, key)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrTokenNotFound
	}
	return user, err
}

func (r *postgresUserRepository) CreateToken(ctx context.Context, t *models.APIToken) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO api_tokens (key, user_id) VALUES ($1, $2) RETURNING created_at`, t.Key, t.UserID,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create api token for user %d: %w", t.UserID, err)
	}
	return nil
}

func (r *postgresUserRepository) DeleteToken(ctx context.Context, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete api token of user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrTokenNotFound)
}
