package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// TokenPgRepository stores refresh tokens
type TokenPgRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new postgres token repository
func NewTokenRepository(db *pgxpool.Pool) *TokenPgRepository {
	return &TokenPgRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Save persists a refresh token with its expiry
func (r *TokenPgRepository) Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	sqlStr, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expires_at").
		Values(token, userID, expiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error saving refresh token")
		return fmt.Errorf("error saving refresh token: %w", err)
	}
	return nil
}

// GetUserID resolves a refresh token to its user, rejecting expired tokens
func (r *TokenPgRepository) GetUserID(ctx context.Context, token string) (int64, error) {
	sqlStr, args, err := r.sb.Select("user_id", "expires_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get token query: %w", err)
	}

	var userID int64
	var expiresAt time.Time
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error querying refresh token")
		return 0, fmt.Errorf("error querying refresh token: %w", err)
	}

	if time.Now().After(expiresAt) {
		return 0, apperrors.ErrTokenExpired
	}
	return userID, nil
}

// Delete removes a refresh token
func (r *TokenPgRepository) Delete(ctx context.Context, token string) error {
	sqlStr, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Msg("Error deleting refresh token")
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}
