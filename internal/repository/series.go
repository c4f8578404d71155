package repository

import (
	"context"
	"fmt"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
)

// SeriesRepository — чтение каталога сериалов.
type SeriesRepository interface {
	// ListAll возвращает весь каталог; фильтрация выполняется в памяти.
	ListAll(ctx context.Context) ([]model.Series, error)
}

type seriesRepo struct {
	db DBTX
}

// NewSeriesRepository создаёт репозиторий сериалов.
func NewSeriesRepository(db DBTX) SeriesRepository {
	return &seriesRepo{db: db}
}

func (r *seriesRepo) ListAll(ctx context.Context) ([]model.Series, error) {
	query := `
		SELECT id, title, COALESCE(genre, ''), isvip, COALESCE(poster, ''),
			year, rating, COALESCE(description, '')
		FROM series
		ORDER BY created_at DESC, title`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сериалов: %w", err)
	}
	defer rows.Close()

	list := []model.Series{}
	for rows.Next() {
		var s model.Series
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Genre, &s.IsVIP, &s.Poster,
			&s.Year, &s.Rating, &s.Description,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сериала: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
