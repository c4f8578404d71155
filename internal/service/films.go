// films.go — чтение фильма для страницы просмотра.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

// Заглушки изображений, если у фильма нет постера или фона.
const (
	PlaceholderBackdrop = "/placeholder-backdrop.jpg"
	PlaceholderPoster   = "/placeholder-poster.png"
)

// WatchView — фильм с готовыми к показу адресами изображений.
type WatchView struct {
	*model.Film
	PosterURL   string `json:"poster_url"`
	BackdropURL string `json:"backdrop_url"`
}

// FilmService — чтение фильмов каталога.
type FilmService struct {
	repo repository.FilmRepository
}

// NewFilmService создаёт сервис фильмов.
func NewFilmService(repo repository.FilmRepository) *FilmService {
	return &FilmService{repo: repo}
}

// GetForWatch возвращает фильм для страницы просмотра.
func (s *FilmService) GetForWatch(ctx context.Context, id string) (*WatchView, error) {
	film, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение фильма %s: %w", id, err)
	}
	return &WatchView{
		Film:        film,
		PosterURL:   ResolveImage(film.Poster, tmdb.SizeDetailPoster, PlaceholderPoster),
		BackdropURL: ResolveImage(film.Backdrop, tmdb.SizeOriginal, PlaceholderBackdrop),
	}, nil
}

// ResolveImage превращает сохранённое значение в адрес изображения:
// абсолютный http(s) URL сохраняется, относительный путь TMDB
// дополняется CDN и размером, пустое значение заменяется заглушкой.
func ResolveImage(raw *string, size tmdb.ImageSize, placeholder string) string {
	if raw == nil {
		return placeholder
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return placeholder
	}
	return tmdb.ImageURL(v, size)
}
