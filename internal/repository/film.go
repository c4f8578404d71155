package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
)

// FilmRepository — доступ к таблице films.
type FilmRepository interface {
	// ExistsByTitleYear — есть ли фильм с точно таким названием и годом.
	ExistsByTitleYear(ctx context.Context, title string, year int) (bool, error)
	// Create вставляет фильм; ID и CreatedAt заполняются при вставке.
	// Нарушение уникальности (title, year) возвращается как ErrConflict.
	Create(ctx context.Context, f *model.Film) error
	// GetByID возвращает фильм или ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Film, error)
}

type filmRepo struct {
	db DBTX
}

// NewFilmRepository создаёт репозиторий фильмов.
func NewFilmRepository(db DBTX) FilmRepository {
	return &filmRepo{db: db}
}

func (r *filmRepo) ExistsByTitleYear(ctx context.Context, title string, year int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM films WHERE title = $1 AND year = $2)`,
		title, year,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки дубликата фильма: %w", err)
	}
	return exists, nil
}

func (r *filmRepo) Create(ctx context.Context, f *model.Film) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	cast := f.Cast
	if cast == nil {
		cast = []model.CastMember{}
	}
	castJSON, err := json.Marshal(cast)
	if err != nil {
		return fmt.Errorf("ошибка сериализации состава: %w", err)
	}
	categories := categoriesToStrings(f.HomepageCategories)

	query := `
		INSERT INTO films (id, title, original_title, description, year, duration,
			director, genre, trailer_url, video_url, isvip, published,
			poster, backdrop, "cast", homepage_categories)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at`

	err = r.db.QueryRow(ctx, query,
		f.ID, f.Title, f.OriginalTitle, f.Description, f.Year, f.Duration,
		f.Director, f.Genre, f.TrailerURL, f.VideoURL, f.IsVIP, f.Published,
		f.Poster, f.Backdrop, castJSON, categories,
	).Scan(&f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: фильм %q (%d) уже есть в каталоге", ErrConflict, f.Title, f.Year)
		}
		return fmt.Errorf("ошибка создания фильма: %w", err)
	}
	return nil
}

func (r *filmRepo) GetByID(ctx context.Context, id string) (*model.Film, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := `
		SELECT id, title, original_title, description, year, duration,
			director, genre, trailer_url, video_url, isvip, published,
			poster, backdrop, "cast", homepage_categories, created_at
		FROM films WHERE id = $1`

	var (
		f          model.Film
		castJSON   []byte
		categories []string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Title, &f.OriginalTitle, &f.Description, &f.Year, &f.Duration,
		&f.Director, &f.Genre, &f.TrailerURL, &f.VideoURL, &f.IsVIP, &f.Published,
		&f.Poster, &f.Backdrop, &castJSON, &categories, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения фильма: %w", err)
	}

	if len(castJSON) > 0 {
		if err := json.Unmarshal(castJSON, &f.Cast); err != nil {
			return nil, fmt.Errorf("ошибка разбора состава фильма %s: %w", id, err)
		}
	}
	for _, c := range categories {
		f.HomepageCategories = append(f.HomepageCategories, model.CategoryTag(c))
	}
	return &f, nil
}

func categoriesToStrings(tags []model.CategoryTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}
