package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/browse"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/mapper"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

// --- GenreService ---

func TestGenreService_ListCached(t *testing.T) {
	repo := &mockGenreRepo{}
	svc := NewGenreService(repo, time.Minute, discardLogger())

	for range 3 {
		genres, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("List() вернул ошибку: %v", err)
		}
		if len(genres) != 4 {
			t.Errorf("len(genres) = %d, ожидается 4", len(genres))
		}
	}
	if repo.calls != 1 {
		t.Errorf("обращений к БД = %d, ожидается 1", repo.calls)
	}
}

func TestGenreService_ErrorNotCached(t *testing.T) {
	fail := true
	repo := &mockGenreRepo{listFn: func(context.Context) ([]model.Genre, error) {
		if fail {
			return nil, errors.New("БД недоступна")
		}
		return testGenres(), nil
	}}
	svc := NewGenreService(repo, time.Minute, discardLogger())

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("List() не вернул ошибку")
	}
	fail = false
	if genres, err := svc.List(context.Background()); err != nil || len(genres) != 4 {
		t.Errorf("повторный List() = %d, %v", len(genres), err)
	}
}

func TestJoinGenreNames(t *testing.T) {
	tests := []struct {
		ids  []string
		want string
	}{
		{[]string{"g-scifi", "g-action"}, "Action,Science-Fiction"},
		{[]string{"g-unknown"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := JoinGenreNames(testGenres(), tt.ids); got != tt.want {
			t.Errorf("JoinGenreNames(%v) = %q, ожидается %q", tt.ids, got, tt.want)
		}
	}
}

// --- MetadataService ---

func TestMetadataService_SearchWrapsError(t *testing.T) {
	client := &mockMetadataClient{searchFn: func(context.Context, string) ([]tmdb.MovieSummary, error) {
		return nil, &tmdb.APIError{StatusCode: 401, Message: "Invalid API key"}
	}}
	svc := NewMetadataService(client, staticGenres{}, nil, discardLogger())

	_, err := svc.Search(context.Background(), "Dune")
	if !errors.Is(err, ErrMetadataUnavailable) {
		t.Errorf("ошибка = %v, ожидается ErrMetadataUnavailable", err)
	}
	var apiErr *tmdb.APIError
	if !errors.As(err, &apiErr) {
		t.Error("исходная ошибка TMDB должна сохраняться в цепочке")
	}
}

func TestMetadataService_Autofill(t *testing.T) {
	client := &mockMetadataClient{detailsFn: func(_ context.Context, id int) (*tmdb.MovieDetails, error) {
		return &tmdb.MovieDetails{
			ID:      id,
			Runtime: 155,
			Genres:  []tmdb.GenreRef{{Name: "Drame"}, {Name: "Science-Fiction"}},
			Credits: &tmdb.Credits{Crew: []tmdb.CrewCredit{{Name: "Denis Villeneuve", Job: "Director"}}},
		}, nil
	}}
	rules := mapper.DefaultRules(mapper.RuleOptions{VIPFromAdult: true})
	svc := NewMetadataService(client, staticGenres{}, rules, discardLogger())
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	u := svc.Autofill(context.Background(), tmdb.MovieSummary{ID: 438631, Title: "Dune", ReleaseDate: "2024-02-28"})
	if !u.DetailsApplied {
		t.Fatal("DetailsApplied = false")
	}
	if u.Director == nil || *u.Director != "Denis Villeneuve" {
		t.Errorf("Director = %v", u.Director)
	}
	if len(u.GenreIDs) != 2 || u.GenreIDs[0] != "g-drama" || u.GenreIDs[1] != "g-scifi" {
		t.Errorf("GenreIDs = %v", u.GenreIDs)
	}
	if len(u.Categories) != 1 || u.Categories[0] != model.CategoryNew {
		t.Errorf("Categories = %v, ожидается [new]", u.Categories)
	}
}

func TestMetadataService_AutofillDegrades(t *testing.T) {
	client := &mockMetadataClient{detailsFn: func(context.Context, int) (*tmdb.MovieDetails, error) {
		return nil, errors.New("timeout")
	}}
	svc := NewMetadataService(client, staticGenres{err: errors.New("БД недоступна")}, nil, discardLogger())

	u := svc.Autofill(context.Background(), tmdb.MovieSummary{ID: 1, Title: "Dune", PosterPath: "/p.jpg"})
	if u.DetailsApplied || u.Title != "Dune" {
		t.Errorf("ожидается автозаполнение только из результата поиска: %+v", u)
	}
	if u.PosterURL != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Errorf("PosterURL = %q", u.PosterURL)
	}
}

// --- SeriesService ---

func TestSeriesService_Browse(t *testing.T) {
	repo := &mockSeriesRepo{listAllFn: func(context.Context) ([]model.Series, error) {
		return []model.Series{
			{ID: "1", Title: "Lupin", Genre: "Policier", IsVIP: false},
			{ID: "2", Title: "Le Bureau des Légendes", Genre: "Drame", IsVIP: true},
		}, nil
	}}
	svc := NewSeriesService(repo, discardLogger())

	r, err := svc.Browse(context.Background(), browse.Filter{VIP: browse.VIPOnly})
	if err != nil {
		t.Fatalf("Browse() вернул ошибку: %v", err)
	}
	if r.State != browse.StateOK || len(r.Items) != 1 || r.Items[0].ID != "2" {
		t.Errorf("результат = %+v", r)
	}
}

func TestSeriesService_BrowseError(t *testing.T) {
	repo := &mockSeriesRepo{listAllFn: func(context.Context) ([]model.Series, error) {
		return nil, errors.New("БД недоступна")
	}}
	if _, err := NewSeriesService(repo, discardLogger()).Browse(context.Background(), browse.Filter{}); err == nil {
		t.Error("Browse() не вернул ошибку")
	}
}

// --- FilmService ---

func TestFilmService_GetForWatch(t *testing.T) {
	poster := "/relative.jpg"
	backdrop := "  https://cdn.example.com/b.jpg  "
	repo := &mockFilmRepo{getByIDFn: func(_ context.Context, id string) (*model.Film, error) {
		if id != "f1" {
			return nil, repository.ErrNotFound
		}
		return &model.Film{ID: "f1", Title: "Dune", Poster: &poster, Backdrop: &backdrop}, nil
	}}
	svc := NewFilmService(repo)

	v, err := svc.GetForWatch(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetForWatch() вернул ошибку: %v", err)
	}
	if v.PosterURL != "https://image.tmdb.org/t/p/w300/relative.jpg" {
		t.Errorf("PosterURL = %q", v.PosterURL)
	}
	if v.BackdropURL != "https://cdn.example.com/b.jpg" {
		t.Errorf("BackdropURL = %q", v.BackdropURL)
	}

	if _, err := svc.GetForWatch(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ошибка = %v, ожидается ErrNotFound", err)
	}
}

func TestResolveImage(t *testing.T) {
	empty := "  "
	rel := "/b.jpg"
	tests := []struct {
		name string
		raw  *string
		want string
	}{
		{"nil", nil, PlaceholderBackdrop},
		{"пробелы", &empty, PlaceholderBackdrop},
		{"путь TMDB", &rel, "https://image.tmdb.org/t/p/original/b.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveImage(tt.raw, tmdb.SizeOriginal, PlaceholderBackdrop); got != tt.want {
				t.Errorf("ResolveImage() = %q, ожидается %q", got, tt.want)
			}
		})
	}
}
