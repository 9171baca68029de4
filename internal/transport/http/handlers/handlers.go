// handlers содержит реализацию HTTP-эндпоинтов auth-сервиса.
// Здесь выполняется только маппинг данных и ошибок доменного слоя (service) в HTTP.
// Вся валидация и бизнес-логика находятся в пакете service.
//
// Принципы:
//   - Контекст запроса прокидывается в сервис без потерь;
//   - Ошибки сервиса транслируются в статусы через apierrors;
//   - Наружу уходят только безопасные проекции пользователя:
//     ни password_hash, ни refresh-поля записи в ответы не попадают.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/service"
)

// Handlers агрегирует зависимости (сервисный слой).
type Handlers struct {
	svc *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// userView — безопасная проекция пользователя для ответов API.
type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

func viewFromUser(u *models.User) userView {
	return userView{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Avatar:   u.Avatar,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// expiresIn — остаток срока действия в секундах для поля *_expires_in.
func expiresIn(t time.Time) int64 {
	d := time.Until(t)
	if d < 0 {
		return 0
	}

	return int64(d.Seconds())
}
