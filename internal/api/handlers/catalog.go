package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/kinoteka/catalog-module/internal/api/errors"
	"github.com/bigkaa/kinoteka/catalog-module/internal/api/generated"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/browse"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/service"
)

type genreListResponse struct {
	Genres []model.Genre `json:"genres"`
}

// ListGenres — GET /api/v1/genres.
func (h *APIHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения справочника жанров", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось получить список жанров")
		return
	}
	if genres == nil {
		genres = []model.Genre{}
	}
	writeJSON(w, http.StatusOK, genreListResponse{Genres: genres})
}

// ListSeries — GET /api/v1/series?genre=&vip=&q=.
func (h *APIHandler) ListSeries(w http.ResponseWriter, r *http.Request, params generated.ListSeriesParams) {
	f := browse.NewFilter(deref(params.Genre), deref(params.Vip), deref(params.Q))
	result, err := h.series.Browse(r.Context(), f)
	if err != nil {
		h.logger.Error("Ошибка загрузки сериалов", slog.String("error", err.Error()))
		apierrors.InternalError(w, service.MsgSeriesFailed)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
