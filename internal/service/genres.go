// genres.go — справочник жанров с кэшированием.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
)

var genreCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cm_genre_cache_lookups_total",
	Help: "Обращения к кэшу справочника жанров (result: hit, miss).",
}, []string{"result"})

// genresKey — единственный ключ кэша: справочник хранится целиком.
const genresKey = "all"

// GenreService — справочник жанров. Список читается из БД
// не чаще одного раза за TTL.
type GenreService struct {
	repo   repository.GenreRepository
	cache  *expirable.LRU[string, []model.Genre]
	logger *slog.Logger
}

// NewGenreService создаёт сервис жанров с временем жизни кэша ttl.
func NewGenreService(repo repository.GenreRepository, ttl time.Duration, logger *slog.Logger) *GenreService {
	return &GenreService{
		repo:   repo,
		cache:  expirable.NewLRU[string, []model.Genre](1, nil, ttl),
		logger: logger.With(slog.String("component", "genre_service")),
	}
}

// List возвращает справочник жанров. Возвращаемый срез нельзя изменять.
func (s *GenreService) List(ctx context.Context) ([]model.Genre, error) {
	if genres, ok := s.cache.Get(genresKey); ok {
		genreCacheLookups.WithLabelValues("hit").Inc()
		return genres, nil
	}
	genreCacheLookups.WithLabelValues("miss").Inc()

	genres, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка справочника жанров: %w", err)
	}
	s.cache.Add(genresKey, genres)
	s.logger.Debug("Справочник жанров загружен", slog.Int("count", len(genres)))
	return genres, nil
}

// JoinGenreNames — названия выбранных жанров через запятую в порядке
// справочника. Неизвестные id пропускаются; пустой результат — "".
func JoinGenreNames(genres []model.Genre, ids []string) string {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	names := make([]string, 0, len(ids))
	for _, g := range genres {
		if selected[g.ID] {
			names = append(names, g.Name)
		}
	}
	return strings.Join(names, ",")
}
