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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavouritesRepository - реализация порта для PostgreSQL.
//
// Инварианты обеспечиваются самой БД:
//   - уникальный индекс (user_id, url) отлавливает дубликаты (23505);
//   - лимит записей проверяется условным INSERT под advisory-локом
//     пользователя, чтобы два параллельных запроса не проскочили оба
//     на 19-й записи.
type PostgresFavouritesRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFavouritesRepository - конструктор.
func NewPostgresFavouritesRepository(pool *pgxpool.Pool) (*PostgresFavouritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresFavouritesRepository{pool: pool}, nil
}

// Insert добавляет запись в favourites с повторной проверкой лимита внутри транзакции.
func (r *PostgresFavouritesRepository) Insert(ctx context.Context, userID uuid.UUID, title, url string) (*domain.FavouriteEntry, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavouritesRepository",
		"method":    "Insert",
		"user_id":   userID,
		"url":       url,
	})

	repoLogger.Debug("Attempting to insert favourite.", nil)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Сериализуем вставки одного пользователя: advisory-лок живёт до конца
	// транзакции и закрывает гонку "оба увидели 19 записей".
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, userID); err != nil {
		repoLogger.Error("Failed to take per-user advisory lock", err, nil)
		return nil, fmt.Errorf("failed to take advisory lock: %w", err)
	}

	query := `
		INSERT INTO favourites (user_id, title, url)
		SELECT $1, $2, $3
		WHERE (SELECT COUNT(*) FROM favourites WHERE user_id = $1) < $4
		RETURNING title, url, sort_order, created_at`

	entry := domain.FavouriteEntry{UserID: userID}
	err = tx.QueryRow(ctx, query, userID, title, url, domain.MaxFavourites).
		Scan(&entry.Title, &entry.URL, &entry.Order, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Условие лимита не прошло - вставка не выполнялась.
			repoLogger.Warn("Favourite limit reached, insert skipped.", nil)
			return nil, domain.ErrLimitExceeded
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // 23505 - unique_violation
			repoLogger.Warn("Favourite already exists for this user.", nil)
			return nil, domain.ErrDuplicate
		}
		repoLogger.Error("Failed to insert favourite", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to insert favourite: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Successfully inserted favourite.", nil)
	return &entry, nil
}

// ListByUser возвращает избранное пользователя в отображаемом порядке.
func (r *PostgresFavouritesRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FavouriteEntry, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavouritesRepository",
		"method":    "ListByUser",
		"user_id":   userID,
	})

	// Позиция определяется составным ключом (sort_order, created_at),
	// а не порядком вставки строк.
	dataQuery := `
		SELECT title, url, sort_order, created_at
		FROM favourites
		WHERE user_id = $1
		ORDER BY sort_order ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, dataQuery, userID)
	if err != nil {
		repoLogger.Error("Failed to query favourites", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to query favourites: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.FavouriteEntry, 0)
	for rows.Next() {
		entry := domain.FavouriteEntry{UserID: userID}
		if err := rows.Scan(&entry.Title, &entry.URL, &entry.Order, &entry.CreatedAt); err != nil {
			repoLogger.Error("Failed to scan favourite row", err, nil)
			return nil, fmt.Errorf("failed to scan favourite: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during favourites iteration", err, nil)
		return nil, fmt.Errorf("error during favourites iteration: %w", err)
	}

	return entries, nil
}

// Update изменяет title и/или url записи, найденной по (user_id, старый url).
func (r *PostgresFavouritesRepository) Update(ctx context.Context, userID uuid.UUID, oldURL string, upd port.FavouriteUpdate) (*domain.FavouriteEntry, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavouritesRepository",
		"method":    "Update",
		"user_id":   userID,
		"old_url":   oldURL,
	})

	setClause, args := buildFavouriteUpdateSet(upd, 3)
	if setClause == "" {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		UPDATE favourites
		SET %s
		WHERE user_id = $1 AND url = $2
		RETURNING title, url, sort_order, created_at`, setClause)

	fullArgs := append([]any{userID, oldURL}, args...)

	entry := domain.FavouriteEntry{UserID: userID}
	err := r.pool.QueryRow(ctx, query, fullArgs...).
		Scan(&entry.Title, &entry.URL, &entry.Order, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Favourite to update was not found.", nil)
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			repoLogger.Warn("New url collides with another favourite of this user.", nil)
			return nil, domain.ErrDuplicate
		}
		repoLogger.Error("Failed to update favourite", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to update favourite: %w", err)
	}

	repoLogger.Debug("Successfully updated favourite.", nil)
	return &entry, nil
}

// Delete удаляет запись по (user_id, url).
func (r *PostgresFavouritesRepository) Delete(ctx context.Context, userID uuid.UUID, url string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavouritesRepository",
		"method":    "Delete",
		"user_id":   userID,
		"url":       url,
	})

	query := `DELETE FROM favourites WHERE user_id = $1 AND url = $2`

	cmdTag, err := r.pool.Exec(ctx, query, userID, url)
	if err != nil {
		repoLogger.Error("Failed to delete favourite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to delete favourite: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Favourite to delete was not found.", nil)
		return domain.ErrNotFound
	}

	repoLogger.Debug("Successfully deleted favourite.", nil)
	return nil
}

// Reorder применяет пары (url, order) одним пакетом внутри одной транзакции.
// Если хотя бы одна пара не нашла свою строку, откатывается весь пакет -
// частично переставленного порядка снаружи не видно никогда.
func (r *PostgresFavouritesRepository) Reorder(ctx context.Context, userID uuid.UUID, pairs []domain.ReorderPair) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavouritesRepository",
		"method":    "Reorder",
		"user_id":   userID,
		"pairs":     len(pairs),
	})

	repoLogger.Debug("Starting transaction to reorder favourites.", nil)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE favourites SET sort_order = $3 WHERE user_id = $1 AND url = $2`

	batch := &pgx.Batch{}
	for _, p := range pairs {
		batch.Queue(query, userID, p.URL, p.Order)
	}

	br := tx.SendBatch(ctx, batch)
	for _, p := range pairs {
		cmdTag, err := br.Exec()
		if err != nil {
			br.Close()
			repoLogger.Error("Failed to apply reorder pair", err, port.Fields{"url": p.URL})
			return fmt.Errorf("failed to apply reorder pair for %q: %w", p.URL, err)
		}
		if cmdTag.RowsAffected() == 0 {
			br.Close()
			repoLogger.Warn("Reorder pair references an unknown url, rolling back batch.", port.Fields{"url": p.URL})
			return fmt.Errorf("reorder pair for %q: %w", p.URL, domain.ErrNotFound)
		}
	}
	if err := br.Close(); err != nil {
		repoLogger.Error("Failed to close reorder batch", err, nil)
		return fmt.Errorf("failed to close reorder batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Successfully reordered favourites.", nil)
	return nil
}

// CountByUser возвращает число записей пользователя.
func (r *PostgresFavouritesRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavouritesRepository",
		"method":    "CountByUser",
		"user_id":   userID,
	})

	var count int
	countQuery := `SELECT COUNT(*) FROM favourites WHERE user_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&count); err != nil {
		repoLogger.Error("Failed to count favourites", err, port.Fields{"query": countQuery})
		return 0, fmt.Errorf("failed to count favourites: %w", err)
	}
	return count, nil
}
