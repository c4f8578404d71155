// handler.go — APIHandler реализует generated.ServerInterface.
// Обработчики делегируют запросы в сервисный слой и переводят ошибки в JSON-конверт.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/kinoteka/catalog-module/internal/api/generated"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/browse"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/mapper"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/service"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

// MetadataService — поиск в TMDB и автозаполнение (service.MetadataService).
type MetadataService interface {
	Search(ctx context.Context, query string) ([]tmdb.MovieSummary, error)
	Autofill(ctx context.Context, summary tmdb.MovieSummary) mapper.FieldUpdates
}

// FilmSubmitter — публикация черновика (service.FilmSubmissionService).
type FilmSubmitter interface {
	Submit(ctx context.Context, adminID string, d *model.FilmDraft) (*model.Film, error)
}

// FilmReader — чтение фильма для просмотра (service.FilmService).
type FilmReader interface {
	GetForWatch(ctx context.Context, id string) (*service.WatchView, error)
}

// GenreLister — справочник жанров (service.GenreService).
type GenreLister interface {
	List(ctx context.Context) ([]model.Genre, error)
}

// SeriesBrowser — каталог сериалов с фильтрами (service.SeriesService).
type SeriesBrowser interface {
	Browse(ctx context.Context, f browse.Filter) (browse.Result, error)
}

// Deps — зависимости APIHandler.
type Deps struct {
	Health   *HealthHandler
	Metadata MetadataService
	Submit   FilmSubmitter
	Films    FilmReader
	Genres   GenreLister
	Series   SeriesBrowser
	// MaxUploadBytes — ограничение тела multipart-запроса публикации
	MaxUploadBytes int64
}

// APIHandler — обработчик API Catalog Module.
type APIHandler struct {
	health         *HealthHandler
	metadata       MetadataService
	submit         FilmSubmitter
	films          FilmReader
	genres         GenreLister
	series         SeriesBrowser
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewAPIHandler создаёт обработчик API.
func NewAPIHandler(deps Deps, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		health:         deps.Health,
		metadata:       deps.Metadata,
		submit:         deps.Submit,
		films:          deps.Films,
		genres:         deps.Genres,
		series:         deps.Series,
		maxUploadBytes: deps.MaxUploadBytes,
		logger:         logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var _ generated.ServerInterface = (*APIHandler)(nil)
