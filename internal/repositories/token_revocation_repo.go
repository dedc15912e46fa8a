package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/ideabox/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRevocationRepository keeps revoked token ids in Postgres for
// deployments that run several replicas without Redis.
type TokenRevocationRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRevocationRepository(db *database.DB) *TokenRevocationRepository {
	return &TokenRevocationRepository{pool: db.Pool}
}

// Revoke adds a token to the revocation blacklist
func (r *TokenRevocationRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at)
	`

	if _, err := r.pool.Exec(ctx, query, jti, expiresAt); err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}

// IsRevoked checks if a token is in the revocation blacklist
func (r *TokenRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, jti).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

// CleanupExpired removes revocations whose token has expired
func (r *TokenRevocationRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < $1`

	result, err := r.pool.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}
