package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-auth-service/internal/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// authClaims — полезная нагрузка обоих классов токенов.
// Класс токена определяется не клеймами, а секретом подписи:
// access и refresh подписываются разными ключами (см. config.AuthConfig).
type authClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// signToken подписывает токен с заданным TTL и секретом.
func (s *Service) signToken(ctx context.Context, userID uuid.UUID, username string, now time.Time, ttl time.Duration, secret string) (string, error) {
	const op = "service.token.signToken"

	lg := log.From(ctx)

	claims := authClaims{
		UserID:   userID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Audience),
			// jti делает токены уникальными даже при выпуске в одну секунду:
			// повторный логин всегда порождает новый refresh-токен.
			ID: uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		lg.Error("token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// parseToken валидирует подпись/срок/issuer/audience и возвращает клеймы.
func (s *Service) parseToken(tokenStr, secret string) (uuid.UUID, string, error) {
	const op = "service.token.parseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &authClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience...),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, claims.Username, nil
}

// generateAccessToken генерирует access-токен.
func (s *Service) generateAccessToken(ctx context.Context, userID uuid.UUID, username string, now time.Time) (string, error) {
	return s.signToken(ctx, userID, username, now, s.cfg.AccessTokenTTL, s.cfg.AccessSecret)
}

// validateAccessToken валидирует access-токен.
func (s *Service) validateAccessToken(tokenStr string) (uuid.UUID, string, error) {
	return s.parseToken(tokenStr, s.cfg.AccessSecret)
}

// generateRefreshToken генерирует refresh-токен.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID, username string, now time.Time) (string, error) {
	return s.signToken(ctx, userID, username, now, s.cfg.RefreshTokenTTL, s.cfg.RefreshSecret)
}

// validateRefreshToken проверяет только криптографическую часть refresh-токена.
// Сверка с сохранённой сессией выполняется отдельно (см. RefreshToken).
func (s *Service) validateRefreshToken(tokenStr string) (uuid.UUID, string, error) {
	return s.parseToken(tokenStr, s.cfg.RefreshSecret)
}

// sessionKey — ключ кэша сессии: SHA-256 от refresh-токена.
// Сам токен в кэш не попадает.
func sessionKey(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
