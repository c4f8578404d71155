// series.go — публичный браузер сериалов.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/browse"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
)

// SeriesService — фильтрация каталога сериалов.
type SeriesService struct {
	repo   repository.SeriesRepository
	logger *slog.Logger
}

// NewSeriesService создаёт сервис сериалов.
func NewSeriesService(repo repository.SeriesRepository, logger *slog.Logger) *SeriesService {
	return &SeriesService{
		repo:   repo,
		logger: logger.With(slog.String("component", "series_service")),
	}
}

// Browse загружает весь каталог и применяет фильтр в памяти.
func (s *SeriesService) Browse(ctx context.Context, f browse.Filter) (browse.Result, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return browse.Result{}, fmt.Errorf("загрузка каталога сериалов: %w", err)
	}
	r := browse.Browse(list, f)
	s.logger.Debug("Каталог сериалов отфильтрован",
		slog.Int("total", r.Total),
		slog.Int("shown", len(r.Items)),
		slog.String("filter", r.Query),
	)
	return r, nil
}
