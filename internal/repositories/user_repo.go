package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/ideabox/internal/database"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const userColumns = `id, username, password_hash, role, is_active, full_name,
	has_completed_introduction, requires_password_change, temp_password, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var tempPassword *string

	err := scanner.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &user.FullName,
		&user.HasCompletedIntroduction, &user.RequiresPasswordChange, &tempPassword,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if tempPassword != nil {
		user.TempPassword = *tempPassword
	}

	return &user, nil
}

// scanUserRows iterates through rows and scans each into User models
func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// GetByIDs returns the users that exist among ids; missing ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY id`

	rows, err := r.pool.Query(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) ListWithTempPassword(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE temp_password IS NOT NULL ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	query := `
		INSERT INTO users (username, password_hash, role, is_active, full_name,
			has_completed_introduction, requires_password_change, temp_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + userColumns

	created, err := scanUserRow(r.pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Role, user.IsActive, user.FullName,
		user.HasCompletedIntroduction, user.RequiresPasswordChange, nullableString(user.TempPassword),
		now,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET password_hash = $2, role = $3, is_active = $4, full_name = $5,
			has_completed_introduction = $6, requires_password_change = $7,
			temp_password = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.PasswordHash, user.Role, user.IsActive, user.FullName,
		user.HasCompletedIntroduction, user.RequiresPasswordChange,
		nullableString(user.TempPassword), time.Now().UTC(),
	))
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ClearTempPasswords drops plain temporary passwords of accounts created
// before cutoff. A zero cutoff clears all of them.
func (r *UserRepository) ClearTempPasswords(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE users SET temp_password = NULL, updated_at = NOW() WHERE temp_password IS NOT NULL`
	args := []interface{}{}
	if !cutoff.IsZero() {
		query += ` AND created_at < $1`
		args = append(args, cutoff)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear temporary passwords: %w", err)
	}

	return result.RowsAffected(), nil
}
