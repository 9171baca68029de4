// service содержит бизнес-логику auth-сервиса:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов
// и работу с хранилищем через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Инвариант одной сессии: у пользователя в любой момент не более одного
//     действующего refresh-токена; новый логин вытесняет предыдущий.
//   - Ошибки возвращаются и далее маппятся транспортом
//     на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-auth-service/internal/cache"
	"github.com/pribylovaa/go-auth-service/internal/config"
	"github.com/pribylovaa/go-auth-service/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Снаружи неразличимо, что именно не совпало (защита от перебора имён).
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или не совпадает с сохранённой сессией. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrUsernameTaken — username уже занят другим пользователем.
	// Транспорт: HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidUsername — username не проходит политику валидации.
	// Транспорт: HTTP 400.
	ErrInvalidUsername = errors.New("invalid username format")

	// ErrInvalidEmail — e-mail профиля имеет некорректный формат.
	// Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrUserNotFound — пользователь не найден (профильные операции).
	// Транспорт: HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyUpdate — обновление профиля не содержит ни одного поля.
	// Транспорт: HTTP 400.
	ErrEmptyUpdate = errors.New("empty profile update")
)

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	scache  cache.SessionCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetSessionCache устанавливает кэш сессий (опционально).
func (s *Service) SetSessionCache(c cache.SessionCache) {
	s.scache = c
}
