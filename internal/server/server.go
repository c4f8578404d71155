// Пакет server — HTTP-сервер Catalog Module с graceful shutdown.
// Без TLS: HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/bigkaa/kinoteka/catalog-module/internal/api/errors"
	"github.com/bigkaa/kinoteka/catalog-module/internal/api/generated"
	"github.com/bigkaa/kinoteka/catalog-module/internal/api/middleware"
	"github.com/bigkaa/kinoteka/catalog-module/internal/config"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/rbac"
	"github.com/bigkaa/kinoteka/catalog-module/internal/service"
)

// Server — HTTP-сервер Catalog Module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с маршрутами и middleware.
// handler — реализация generated.ServerInterface (APIHandler).
// jwtAuth может быть nil (тесты без аутентификации): тогда защищённые
// маршруты доступны без токена.
func New(cfg *config.Config, logger *slog.Logger, handler generated.ServerInterface, jwtAuth *middleware.JWTAuth) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(logger, handler, jwtAuth),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter регистрирует маршруты API по контракту api/openapi.yaml.
// Операции с security bearerAuth требуют JWT и права из scopes;
// остальные (health, metrics, сериалы, просмотр фильма) публичные.
func NewRouter(logger *slog.Logger, handler generated.ServerInterface, jwtAuth *middleware.JWTAuth) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	var mws []generated.MiddlewareFunc
	if jwtAuth != nil {
		mws = append(mws, requireScopes(jwtAuth))
	}

	// Все маршруты через HandlerWithOptions (oapi-codegen chi-server).
	generated.HandlerWithOptions(handler, generated.ChiServerOptions{
		BaseRouter:       router,
		Middlewares:      mws,
		ErrorHandlerFunc: paramErrorHandler,
	})

	return router
}

// requireScopes применяет JWT и проверку прав к операциям, для которых
// сгенерированная обёртка положила в контекст BearerAuthScopes.
// Каждый scope — право rbac.Permission.
func requireScopes(jwtAuth *middleware.JWTAuth) generated.MiddlewareFunc {
	authenticate := jwtAuth.Middleware()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scopes, ok := r.Context().Value(generated.BearerAuthScopes).([]string)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			h := next
			for _, scope := range scopes {
				h = middleware.RequirePermission(rbac.Permission(scope))(h)
			}
			authenticate(h).ServeHTTP(w, r)
		})
	}
}

// paramErrorHandler переводит ошибки разбора параметров в JSON-конверт.
// id фильма, не являющийся UUID, не может указывать на фильм: 404.
func paramErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var format *generated.InvalidParamFormatError
	if errors.As(err, &format) && format.ParamName == "id" {
		apierrors.NotFound(w, service.MsgFilmNotFound)
		return
	}
	apierrors.ValidationError(w, err.Error())
}

// Run запускает сервер и ожидает SIGINT/SIGTERM, после чего выполняет
// graceful shutdown в пределах CM_SHUTDOWN_TIMEOUT.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
