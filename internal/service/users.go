package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/storage"

	"github.com/google/uuid"
)

// UserByID возвращает пользователя по ID (профильные операции).
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.users.UserByID"

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateProfile частично обновляет профиль пользователя.
// Username и учётные данные этим путём не меняются.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
	const op = "service.users.UpdateProfile"

	if upd.Empty() {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyUpdate)
	}

	if upd.Email != nil && *upd.Email != "" {
		norm, err := normalizeEmail(*upd.Email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
		}
		upd.Email = &norm
	}

	user, err := s.storage.UpdateProfile(ctx, id, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// normalizeEmail проверяет базовый формат email и обрезает пробелы снаружи.
func normalizeEmail(raw string) (string, error) {
	const op = "service.users.normalizeEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}
