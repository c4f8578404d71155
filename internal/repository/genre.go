package repository

import (
	"context"
	"fmt"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
)

// GenreRepository — чтение справочника жанров.
type GenreRepository interface {
	// List возвращает все жанры, отсортированные по названию.
	List(ctx context.Context) ([]model.Genre, error)
}

type genreRepo struct {
	db DBTX
}

// NewGenreRepository создаёт репозиторий жанров.
func NewGenreRepository(db DBTX) GenreRepository {
	return &genreRepo{db: db}
}

func (r *genreRepo) List(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения жанров: %w", err)
	}
	defer rows.Close()

	genres := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования жанра: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
