package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// userColumns — единый список колонок для SELECT-запросов.
// NULL-поля профиля приводятся к пустой строке на уровне запроса.
const userColumns = `
	id, username, password_hash,
	COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone, ''), COALESCE(avatar, ''),
	refresh_token, refresh_expires_at, created_at, updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.Avatar,
		&user.RefreshToken,
		&user.RefreshExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SaveUser создает нового пользователя в БД.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users(id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByUsername находит пользователя по username (CITEXT — без учёта регистра).
func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.postgres.UserByUsername"

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByRefreshToken находит пользователя по текущему refresh-токену.
// Пустые значения не участвуют в поиске: '' означает отсутствие сессии.
func (s *Storage) UserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.postgres.UserByRefreshToken"

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// SetRefreshToken атомарно перезаписывает refresh-токен пользователя.
// Однострочный UPDATE гарантирует last-writer-wins при конкурентных логинах.
func (s *Storage) SetRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	const op = "storage.postgres.SetRefreshToken"

	query := `
		UPDATE users
		SET refresh_token = $2, refresh_expires_at = $3, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateProfile частично обновляет поля профиля.
// nil-поля сохраняют текущие значения (COALESCE на стороне БД).
func (s *Storage) UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.postgres.UpdateProfile"

	query := `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    email     = COALESCE($3, email),
		    phone     = COALESCE($4, phone),
		    avatar    = COALESCE($5, avatar),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRow(ctx, query,
		userID,
		upd.FullName,
		upd.Email,
		upd.Phone,
		upd.Avatar,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ClearExpiredRefreshTokens очищает refresh-токены с истёкшим сроком действия.
func (s *Storage) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) error {
	const op = "storage.postgres.ClearExpiredRefreshTokens"

	query := `
		UPDATE users
		SET refresh_token = '', refresh_expires_at = 'epoch'::timestamptz, updated_at = now()
		WHERE refresh_token <> '' AND refresh_expires_at <= $1
	`

	_, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
