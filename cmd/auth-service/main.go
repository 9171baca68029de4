package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-auth-service/internal/cache"
	"github.com/pribylovaa/go-auth-service/internal/config"
	"github.com/pribylovaa/go-auth-service/internal/service"
	"github.com/pribylovaa/go-auth-service/internal/storage"
	"github.com/pribylovaa/go-auth-service/internal/storage/postgres"
	authhttp "github.com/pribylovaa/go-auth-service/internal/transport/http"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting auth-service", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	// Подключение к БД c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer str.Close()
	log.Info("postgres_connected")

	// Сервис.
	srvc := service.New(str, cfg.Auth)

	// Кэш сессий — опционален: пустой REDIS_URL отключает его.
	if cfg.Redis.RedisURL != "" {
		scache, err := cache.NewRedisCache(cfg.Redis.RedisURL, "")
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = scache.Close() }()

		srvc.SetSessionCache(scache)
		log.Info("session_cache_enabled")
	}
	log.Info("service_initialized")

	// Фоновая очистка просроченных сессий.
	startSessionJanitor(rootCtx, str, log, 30*time.Minute)

	apiHandler := authhttp.NewRouter(srvc, authhttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	// Graceful stop с таймаутом.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// startSessionJanitor запускает фоновую задачу, которая периодически очищает
// просроченные refresh-токены на записях пользователей.
func startSessionJanitor(ctx context.Context, st storage.Storage, log *slog.Logger, period time.Duration) {
	if period <= 0 {
		return
	}

	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := st.ClearExpiredRefreshTokens(ctx, time.Now().UTC()); err != nil {
					log.Error("session_janitor_failed", slog.String("err", err.Error()))
				}
			}
		}
	}()
}
