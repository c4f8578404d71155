package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/kinoteka/catalog-module/internal/config"
	"github.com/bigkaa/kinoteka/catalog-module/internal/database"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
)

// setupTestDB запускает PostgreSQL контейнер и применяет миграции.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("kinoteka_test"),
		postgres.WithUsername("kinoteka"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("CM_DB_HOST", host)
	t.Setenv("CM_DB_PORT", port.Port())
	t.Setenv("CM_DB_NAME", "kinoteka_test")
	t.Setenv("CM_DB_USER", "kinoteka")
	t.Setenv("CM_DB_PASSWORD", "test-password")
	t.Setenv("CM_KEYCLOAK_URL", "http://localhost:8080")
	t.Setenv("CM_TMDB_API_KEY", "test")
	t.Setenv("CM_STORAGE_URL", "http://localhost:9999/storage/v1")
	t.Setenv("CM_STORAGE_SERVICE_KEY", "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

func strPtr(s string) *string { return &s }

// --- FilmRepository ---

func TestFilmCreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewFilmRepository(pool)

	photo := "https://image.tmdb.org/t/p/w185/t.jpg"
	film := &model.Film{
		Title:         "Dune",
		OriginalTitle: strPtr("Dune"),
		Description:   "Paul Atreides...",
		Year:          2021,
		Duration:      155,
		Director:      strPtr("Denis Villeneuve"),
		Genre:         strPtr("Science-Fiction,Aventure"),
		Published:     true,
		Poster:        strPtr("https://image.tmdb.org/t/p/w500/p.jpg"),
		Cast: []model.CastMember{
			{Name: "Timothée Chalamet", Role: "Paul Atreides", Photo: &photo},
			{Name: "Zendaya", Role: "Chani"},
		},
		HomepageCategories: []model.CategoryTag{model.CategoryTop, model.CategoryFeatured},
	}

	if err := repo.Create(ctx, film); err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	if film.ID == "" || film.CreatedAt.IsZero() {
		t.Errorf("ID/CreatedAt не заполнены: %q, %v", film.ID, film.CreatedAt)
	}

	got, err := repo.GetByID(ctx, film.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.Title != "Dune" || got.Year != 2021 || got.Duration != 155 {
		t.Errorf("получено %+v", got)
	}
	if got.TrailerURL != nil || got.Backdrop != nil {
		t.Errorf("пустые поля должны быть NULL: trailer=%v backdrop=%v", got.TrailerURL, got.Backdrop)
	}
	if len(got.Cast) != 2 || got.Cast[0].Photo == nil || got.Cast[1].Photo != nil {
		t.Errorf("Cast = %+v", got.Cast)
	}
	if len(got.HomepageCategories) != 2 || got.HomepageCategories[0] != model.CategoryTop {
		t.Errorf("HomepageCategories = %v", got.HomepageCategories)
	}

	exists, err := repo.ExistsByTitleYear(ctx, "Dune", 2021)
	if err != nil || !exists {
		t.Errorf("ExistsByTitleYear(Dune, 2021) = %v, %v; ожидается true", exists, err)
	}
	exists, _ = repo.ExistsByTitleYear(ctx, "Dune", 1984)
	if exists {
		t.Error("ExistsByTitleYear(Dune, 1984) = true")
	}

	// Та же пара (title, year) — конфликт уникальности
	dupe := &model.Film{Title: "Dune", Year: 2021}
	if err := repo.Create(ctx, dupe); !errors.Is(err, ErrConflict) {
		t.Errorf("повторный Create() = %v, ожидается ErrConflict", err)
	}
}

func TestFilmGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewFilmRepository(pool)

	for _, id := range []string{uuid.New().String(), "not-a-uuid"} {
		if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID(%q) = %v, ожидается ErrNotFound", id, err)
		}
	}
}

// --- GenreRepository ---

func TestGenreList(t *testing.T) {
	pool := setupTestDB(t)
	genres, err := NewGenreRepository(pool).List(context.Background())
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(genres) == 0 {
		t.Fatal("справочник жанров пуст")
	}
	for i := 1; i < len(genres); i++ {
		if genres[i-1].Name > genres[i].Name {
			t.Errorf("жанры не отсортированы: %q > %q", genres[i-1].Name, genres[i].Name)
		}
	}
}

// --- SeriesRepository ---

func TestSeriesListAll(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO series (title, genre, isvip, year, rating) VALUES
			('Le Bureau des Légendes', 'Drame', true, 2015, 8.7),
			('Lupin', NULL, false, NULL, NULL)`)
	if err != nil {
		t.Fatalf("ошибка вставки сериалов: %v", err)
	}

	list, err := NewSeriesRepository(pool).ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() ошибка: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListAll() вернул %d записей, ожидается 2", len(list))
	}
	for _, s := range list {
		if s.Title == "Lupin" && (s.Genre != "" || s.Year != nil || s.Rating != nil) {
			t.Errorf("NULL-поля Lupin: %+v", s)
		}
		if s.Title == "Le Bureau des Légendes" && (!s.IsVIP || s.Year == nil || *s.Year != 2015) {
			t.Errorf("Le Bureau des Légendes: %+v", s)
		}
	}
}

// --- AdminLogRepository ---

func TestAdminLogInsert(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	entry := &model.AdminLog{
		AdminID: "admin-uuid",
		Action:  model.ActionAddFilm,
		Details: map[string]any{"film_id": "f1", "film_title": "Dune"},
	}
	if err := NewAdminLogRepository(pool).Insert(ctx, entry); err != nil {
		t.Fatalf("Insert() ошибка: %v", err)
	}
	if entry.ID == 0 {
		t.Error("ID не заполнен")
	}

	var title string
	err := pool.QueryRow(ctx, `SELECT details->>'film_title' FROM admin_logs WHERE id = $1`, entry.ID).Scan(&title)
	if err != nil {
		t.Fatalf("ошибка чтения журнала: %v", err)
	}
	if title != "Dune" {
		t.Errorf("film_title = %q, ожидается Dune", title)
	}
}
