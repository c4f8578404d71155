// metadata.go — поиск в TMDB и автозаполнение черновика фильма.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/mapper"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/search"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

// MetadataClient — операции TMDB, нужные сервису.
type MetadataClient interface {
	search.Searcher
	search.DetailFetcher
}

// GenreProvider — источник справочника жанров.
type GenreProvider interface {
	List(ctx context.Context) ([]model.Genre, error)
}

// MetadataService — поиск фильмов и построение предложений автозаполнения.
type MetadataService struct {
	client MetadataClient
	genres GenreProvider
	rules  []mapper.Rule
	now    func() time.Time
	logger *slog.Logger
}

// NewMetadataService создаёт сервис метаданных.
func NewMetadataService(client MetadataClient, genres GenreProvider, rules []mapper.Rule, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		client: client,
		genres: genres,
		rules:  rules,
		now:    time.Now,
		logger: logger.With(slog.String("component", "metadata_service")),
	}
}

// Search ищет фильмы по названию. Ошибки TMDB оборачиваются
// в ErrMetadataUnavailable.
func (s *MetadataService) Search(ctx context.Context, query string) ([]tmdb.MovieSummary, error) {
	results, err := s.client.SearchMovies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err) //nolint:errorlint // намеренный двойной wrap
	}
	return results, nil
}

// Autofill строит предложенные поля по выбранному результату поиска.
// Недоступность детальной карточки или справочника жанров не мешает
// автозаполнению: соответствующие поля остаются без изменений.
func (s *MetadataService) Autofill(ctx context.Context, summary tmdb.MovieSummary) mapper.FieldUpdates {
	genres, err := s.genres.List(ctx)
	if err != nil {
		s.logger.Warn("Справочник жанров недоступен, жанры не сопоставляются",
			slog.String("error", err.Error()),
		)
		genres = nil
	}
	return search.Resolve(ctx, s.client, summary, genres, s.now(), s.rules, s.logger)
}
