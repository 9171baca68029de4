package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/pribylovaa/go-auth-service/internal/cache"
	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/pkg/log"
	"github.com/pribylovaa/go-auth-service/internal/pkg/redact"
	"github.com/pribylovaa/go-auth-service/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя.
// Токены при регистрации не выпускаются: сессия появляется только после логина.
func (s *Service) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	const op = "service.auth.RegisterUser"

	normUsername, err := validateUsername(username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     normUsername,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// LoginUser выполняет вход по username+пароль и выпускает новую пару токенов.
// Сохранение refresh-токена на записи пользователя перезаписывает предыдущую
// сессию: это единственная точка инвалидации при повторном логине.
func (s *Service) LoginUser(ctx context.Context, username, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.LoginUser"

	lg := log.From(ctx)

	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Внутренне различаем причину, наружу уходит общий сигнал.
			lg.Warn("login_unknown_username",
				slog.String("op", op),
				slog.String("username", redact.Username(username)),
			)
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		lg.Warn("login_password_mismatch",
			slog.String("op", op),
			slog.String("username", redact.Username(username)),
		)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

// RefreshToken выпускает новый access-токен по действующему refresh-токену.
// Refresh-токен при этом не ротируется.
//
// Порядок проверок:
//  1. криптографическая валидация (подпись/срок, секрет refresh-класса);
//  2. fast-reject по кэшу сессий (если сконфигурирован);
//  3. поиск пользователя по значению токена в хранилище и точное совпадение
//     с сохранённым полем — отсекает вытесненные и отозванные токены,
//     которые криптографически всё ещё валидны.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, time.Time, *models.User, error) {
	const op = "service.auth.RefreshToken"

	lg := log.From(ctx)

	uid, _, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.scache != nil {
		entry, ok, cerr := s.scache.Get(ctx, sessionKey(refreshToken))
		switch {
		case cerr != nil:
			// Кэш — ускоритель; его отказ не влияет на корректность.
			lg.Warn("session_cache_get_failed",
				slog.String("op", op),
				slog.String("err", cerr.Error()),
			)
		case ok && entry.Revoked:
			lg.Warn("refresh_revoked",
				slog.String("op", op),
				slog.String("user_id", entry.UserID.String()),
			)
			return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		case ok && time.Now().UTC().After(entry.ExpiresAt):
			return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
	}

	user, err := s.storage.UserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_superseded_or_revoked",
				slog.String("op", op),
				slog.String("user_id", uid.String()),
			)
			return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	// Дополнительная сверка с сохранённой сессией.
	if user.RefreshToken != refreshToken {
		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	now := time.Now().UTC()
	accessToken, err := s.generateAccessToken(ctx, user.ID, user.Username, now)
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	return accessToken, now.Add(s.cfg.AccessTokenTTL), user, nil
}

// Logout отзывает текущую сессию пользователя.
// Идемпотентен: повторный logout и неизвестный пользователь — не ошибка.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	const op = "service.auth.Logout"

	lg := log.From(ctx)

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SetRefreshToken(ctx, userID, "", time.Unix(0, 0).UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if s.scache != nil && user.RefreshToken != "" {
		if cerr := s.scache.MarkRevoked(ctx, sessionKey(user.RefreshToken)); cerr != nil {
			lg.Warn("session_cache_revoke_failed",
				slog.String("op", op),
				slog.String("err", cerr.Error()),
			)
		}
	}

	return nil
}

// ValidateToken проверяет access-токен и возвращает данные пользователя.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (uuid.UUID, string, error) {
	const op = "service.auth.ValidateToken"

	uid, username, err := s.validateAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return uid, username, nil
}

// issueSession выпускает пару токенов и сохраняет refresh-токен
// на записи пользователя (перезаписывая прежний).
func (s *Service) issueSession(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.auth.issueSession"

	lg := log.From(ctx)

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, user.ID, user.Username, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user.ID, user.Username, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshExpiresAt := now.Add(s.cfg.RefreshTokenTTL)
	if err := s.storage.SetRefreshToken(ctx, user.ID, refreshToken, refreshExpiresAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.RefreshToken = refreshToken
	user.RefreshExpiresAt = refreshExpiresAt

	if s.scache != nil {
		entry := &cache.SessionEntry{
			UserID:    user.ID,
			Revoked:   false,
			ExpiresAt: refreshExpiresAt,
		}
		if cerr := s.scache.Set(ctx, sessionKey(refreshToken), entry, s.cfg.RefreshTokenTTL); cerr != nil {
			lg.Warn("session_cache_set_failed",
				slog.String("op", op),
				slog.String("err", cerr.Error()),
			)
		}
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.cfg.AccessTokenTTL),
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateUsername проверяет формат username и обрезает пробелы снаружи.
// Политика: 3..32 символа; буквы, цифры, '.', '_', '-'.
func validateUsername(raw string) (string, error) {
	const op = "service.auth.validateUsername"

	username := strings.TrimSpace(raw)
	if username == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	runes := []rune(username)
	if len(runes) < 3 || len(runes) > 32 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	for _, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '.' || r == '_' || r == '-':
		default:
			return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
		}
	}

	return username, nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: непустой, длина >= 8 символов.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
