package models

import (
	"time"

	"github.com/google/uuid"
)

// User — модель пользователя в системе.
//
// Инварианты:
//   - Username уникален (без учёта регистра) и не меняется после создания;
//   - PasswordHash — bcrypt-хэш, никогда не логируется и не отдаётся наружу;
//   - RefreshToken — не более одного активного refresh-токена на пользователя;
//     пустая строка означает "нет активной сессии".
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string

	// Необязательные поля профиля; NULL в БД представлен пустой строкой
	// на уровне модели (конвертация скрыта в слое postgres).
	FullName string
	Email    string
	Phone    string
	Avatar   string

	// RefreshToken — текущий refresh-токен сессии ('' — сессии нет).
	// Перезаписывается при каждом логине, очищается при logout.
	RefreshToken string
	// RefreshExpiresAt — срок действия сохранённого refresh-токена;
	// используется фоновой очисткой просроченных сессий.
	RefreshExpiresAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate — частичное обновление профиля.
// nil-поле означает "не менять", указатель на пустую строку — "очистить".
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
	Avatar   *string
}

// Empty сообщает, что обновление не затрагивает ни одного поля.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil && p.Avatar == nil
}
