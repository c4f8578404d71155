package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/kinoteka/catalog-module/internal/api/errors"
	"github.com/bigkaa/kinoteka/catalog-module/internal/api/generated"
	"github.com/bigkaa/kinoteka/catalog-module/internal/search"
	"github.com/bigkaa/kinoteka/catalog-module/internal/service"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

type movieSearchResponse struct {
	Results []tmdb.MovieSummary `json:"results"`
}

// SearchMovies — GET /api/tmdb/movie-search?query=.
// Пустой запрос отвечает пустым списком без обращения к TMDB.
// Ошибка TMDB — 502 с текстом, пригодным для показа под полем поиска.
func (h *APIHandler) SearchMovies(w http.ResponseWriter, r *http.Request, params generated.SearchMoviesParams) {
	var query string
	if params.Query != nil {
		query = strings.TrimSpace(*params.Query)
	}
	if query == "" {
		writeJSON(w, http.StatusOK, movieSearchResponse{Results: []tmdb.MovieSummary{}})
		return
	}

	results, err := h.metadata.Search(r.Context(), query)
	if err != nil && !errors.Is(err, service.ErrMetadataUnavailable) {
		h.logger.Error("Ошибка поиска фильмов",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, search.ErrorMessage)
		return
	}
	if err != nil {
		h.logger.Warn("Ошибка поиска в TMDB",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadGateway, generated.MovieSearchError{Error: search.ErrorText(err)})
		return
	}
	if results == nil {
		results = []tmdb.MovieSummary{}
	}
	writeJSON(w, http.StatusOK, movieSearchResponse{Results: results})
}

// AutofillFilm — POST /api/v1/films/autofill. Тело — выбранный результат
// поиска; ответ — предложенные значения полей формы.
func (h *APIHandler) AutofillFilm(w http.ResponseWriter, r *http.Request) {
	var summary tmdb.MovieSummary
	if err := json.NewDecoder(r.Body).Decode(&summary); err != nil {
		apierrors.ValidationError(w, "Невалидный JSON: "+err.Error())
		return
	}
	if summary.Title == "" && summary.ID == 0 {
		apierrors.ValidationError(w, "Не указан фильм TMDB")
		return
	}

	updates := h.metadata.Autofill(r.Context(), summary)
	writeJSON(w, http.StatusOK, updates)
}
