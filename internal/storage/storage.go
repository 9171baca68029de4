package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-auth-service/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена (пользователь/сессия).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями и их сессиями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername находит пользователя по username (без учёта регистра).
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UserByRefreshToken находит пользователя по сохранённому refresh-токену.
	UserByRefreshToken(ctx context.Context, token string) (*models.User, error)
	// SetRefreshToken атомарно перезаписывает refresh-токен пользователя.
	// Пустой token (и нулевой expiresAt) означает отзыв сессии.
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// UpdateProfile частично обновляет поля профиля и возвращает свежую запись.
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.ProfileUpdate) (*models.User, error)
	// ClearExpiredRefreshTokens очищает refresh-токены с истёкшим сроком.
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	Close()
}
