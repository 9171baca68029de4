package models

import "time"

// TokenPair — пара токенов, выдаваемая при аутентификации.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT, который клиент предъявляет
//     для выпуска нового access-токена; сервер хранит его на записи
//     пользователя и сверяет при каждом refresh;
//   - AccessExpiresAt / RefreshExpiresAt — моменты истечения (UTC).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для обновления access-токена.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
	// RefreshExpiresAt — время истечения действия refresh-токена (UTC).
	RefreshExpiresAt time.Time
}
