package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-auth-service/internal/transport/http/apierrors"
	"github.com/pribylovaa/go-auth-service/internal/transport/http/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken      string   `json:"access_token"`
	RefreshToken     string   `json:"refresh_token"`
	AccessExpiresIn  int64    `json:"access_expires_in"`
	RefreshExpiresIn int64    `json:"refresh_expires_in"`
	User             userView `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken     string   `json:"access_token"`
	AccessExpiresIn int64    `json:"access_expires_in"`
	User            userView `json:"user"`
}

type logoutResponse struct {
	Ok bool `json:"ok"`
}

// RegisterUser регистрирует пользователя. Токены не выпускаются:
// клиент после регистрации выполняет обычный логин.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	user, err := h.svc.RegisterUser(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, viewFromUser(user))
}

// LoginUser аутентифицирует пользователя и возвращает новую пару токенов.
// Повторный логин вытесняет предыдущую сессию.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	pair, user, err := h.svc.LoginUser(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresIn:  expiresIn(pair.AccessExpiresAt),
		RefreshExpiresIn: expiresIn(pair.RefreshExpiresAt),
		User:             viewFromUser(user),
	})
}

// RefreshToken выпускает новый access-токен по действующему refresh-токену.
// Сам refresh-токен не ротируется.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	accessToken, expiresAt, user, err := h.svc.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:     accessToken,
		AccessExpiresIn: expiresIn(expiresAt),
		User:            viewFromUser(user),
	})
}

// Logout отзывает текущую сессию аутентифицированного пользователя.
// Идемпотентен: повторный вызов также отвечает 200/ok.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		// Сюда можно попасть только при ошибке конфигурации роутера.
		apierrors.WriteError(w, r, nil)
		return
	}

	if err := h.svc.Logout(r.Context(), identity.UserID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, logoutResponse{Ok: true})
}
