package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
	"github.com/bigkaa/kinoteka/catalog-module/internal/storage"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Моки репозиториев ---

// mockFilmRepo — мок FilmRepository с fn-полями и счётчиками вызовов.
type mockFilmRepo struct {
	mu          sync.Mutex
	existsCalls int
	createCalls int

	existsFn  func(ctx context.Context, title string, year int) (bool, error)
	createFn  func(ctx context.Context, f *model.Film) error
	getByIDFn func(ctx context.Context, id string) (*model.Film, error)
}

func (m *mockFilmRepo) ExistsByTitleYear(ctx context.Context, title string, year int) (bool, error) {
	m.mu.Lock()
	m.existsCalls++
	m.mu.Unlock()
	if m.existsFn != nil {
		return m.existsFn(ctx, title, year)
	}
	return false, nil
}

func (m *mockFilmRepo) Create(ctx context.Context, f *model.Film) error {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	f.ID = "film-uuid"
	return nil
}

func (m *mockFilmRepo) GetByID(ctx context.Context, id string) (*model.Film, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

type mockGenreRepo struct {
	calls  int
	listFn func(ctx context.Context) ([]model.Genre, error)
}

func (m *mockGenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return testGenres(), nil
}

type mockSeriesRepo struct {
	listAllFn func(ctx context.Context) ([]model.Series, error)
}

func (m *mockSeriesRepo) ListAll(ctx context.Context) ([]model.Series, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

type mockAdminLogRepo struct {
	entries  []*model.AdminLog
	insertFn func(ctx context.Context, e *model.AdminLog) error
}

func (m *mockAdminLogRepo) Insert(ctx context.Context, e *model.AdminLog) error {
	m.entries = append(m.entries, e)
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	return nil
}

// --- Мок хранилища ---

type mockUploader struct {
	mu       sync.Mutex
	keys     []string
	uploadFn func(ctx context.Context, bucket, key string) error
}

func (m *mockUploader) Upload(ctx context.Context, bucket, key string, _ io.ReadSeeker, contentType string) (*storage.Object, error) {
	if m.uploadFn != nil {
		if err := m.uploadFn(ctx, bucket, key); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	m.keys = append(m.keys, bucket+"/"+key)
	m.mu.Unlock()
	return &storage.Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		PublicURL:   "https://storage.test/object/public/" + bucket + "/" + key,
	}, nil
}

func (m *mockUploader) uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keys...)
}

// --- Мок TMDB ---

type mockMetadataClient struct {
	searchFn  func(ctx context.Context, query string) ([]tmdb.MovieSummary, error)
	detailsFn func(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

func (m *mockMetadataClient) SearchMovies(ctx context.Context, query string) ([]tmdb.MovieSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []tmdb.MovieSummary{}, nil
}

func (m *mockMetadataClient) MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
	if m.detailsFn != nil {
		return m.detailsFn(ctx, id)
	}
	return nil, tmdb.ErrNotFound
}

// staticGenres — GenreProvider с фиксированным списком.
type staticGenres struct {
	err error
}

func (g staticGenres) List(context.Context) ([]model.Genre, error) {
	if g.err != nil {
		return nil, g.err
	}
	return testGenres(), nil
}

func testGenres() []model.Genre {
	return []model.Genre{
		{ID: "g-action", Name: "Action"},
		{ID: "g-adventure", Name: "Aventure"},
		{ID: "g-drama", Name: "Drame"},
		{ID: "g-scifi", Name: "Science-Fiction"},
	}
}
