package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-auth-service/internal/service"
	"github.com/pribylovaa/go-auth-service/internal/transport/http/handlers"
	"github.com/pribylovaa/go-auth-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, svc)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, svc)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service) {
	// Публичные эндпоинты.
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.LoginUser)
	r.Post("/auth/refresh", h.RefreshToken)

	// Эндпоинты под access-токеном.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(svc))

		r.Post("/auth/logout", h.Logout)
		r.Get("/users/me", h.Me)
		r.Patch("/users/me", h.UpdateProfile)
	})
}
