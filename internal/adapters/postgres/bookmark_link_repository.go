package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/Divyanshu-Bhandari/browzfast/internal/contextkeys"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/domain"
	"github.com/Divyanshu-Bhandari/browzfast/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBookmarkLinkRepository хранит указатель "пользователь -> ключ файла".
// user_id - первичный ключ таблицы, поэтому "не более одного живого ключа
// на пользователя" обеспечивает сама БД.
type PostgresBookmarkLinkRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookmarkLinkRepository - конструктор.
func NewPostgresBookmarkLinkRepository(pool *pgxpool.Pool) (*PostgresBookmarkLinkRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresBookmarkLinkRepository{pool: pool}, nil
}

// GetFileKey возвращает текущий ключ файла закладок пользователя.
func (r *PostgresBookmarkLinkRepository) GetFileKey(ctx context.Context, userID uuid.UUID) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresBookmarkLinkRepository",
		"method":    "GetFileKey",
		"user_id":   userID,
	})

	query := `SELECT file_key FROM bookmark_links WHERE user_id = $1`

	var fileKey string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&fileKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("No bookmark link for user.", nil)
			return "", domain.ErrLinkNotFound
		}
		repoLogger.Error("Failed to query bookmark link", err, port.Fields{"query": query})
		return "", fmt.Errorf("failed to query bookmark link: %w", err)
	}

	return fileKey, nil
}

// SetFileKey создаёт указатель при первом вызове и перезаписывает при последующих.
func (r *PostgresBookmarkLinkRepository) SetFileKey(ctx context.Context, userID uuid.UUID, fileKey string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresBookmarkLinkRepository",
		"method":    "SetFileKey",
		"user_id":   userID,
	})

	query := `
		INSERT INTO bookmark_links (user_id, file_key)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET file_key = EXCLUDED.file_key, updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, userID, fileKey); err != nil {
		repoLogger.Error("Failed to set bookmark link", err, port.Fields{"query": query})
		return fmt.Errorf("failed to set bookmark link: %w", err)
	}

	repoLogger.Debug("Successfully set bookmark link.", nil)
	return nil
}

// ClearFileKey очищает указатель.
func (r *PostgresBookmarkLinkRepository) ClearFileKey(ctx context.Context, userID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresBookmarkLinkRepository",
		"method":    "ClearFileKey",
		"user_id":   userID,
	})

	query := `DELETE FROM bookmark_links WHERE user_id = $1`

	cmdTag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		repoLogger.Error("Failed to clear bookmark link", err, port.Fields{"query": query})
		return fmt.Errorf("failed to clear bookmark link: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Bookmark link to clear was not found.", nil)
		return domain.ErrLinkNotFound
	}

	repoLogger.Debug("Successfully cleared bookmark link.", nil)
	return nil
}
