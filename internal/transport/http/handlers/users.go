package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/transport/http/apierrors"
	"github.com/pribylovaa/go-auth-service/internal/transport/http/middleware"
)

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}

// Me возвращает профиль аутентифицированного пользователя.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, nil)
		return
	}

	user, err := h.svc.UserByID(r.Context(), identity.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewFromUser(user))
}

// UpdateProfile частично обновляет профиль аутентифицированного пользователя.
// Отсутствующее в теле поле не меняется; username этим путём не меняется.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, nil)
		return
	}

	var in updateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), identity.UserID, models.ProfileUpdate{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Avatar:   in.Avatar,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewFromUser(user))
}
