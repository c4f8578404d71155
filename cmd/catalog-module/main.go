// Точка входа Catalog Module — административный бэкенд каталога фильмов Kinoteka.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт клиенты TMDB и объектного хранилища, сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с JWT middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/kinoteka/catalog-module/internal/api/handlers"
	"github.com/bigkaa/kinoteka/catalog-module/internal/api/middleware"
	"github.com/bigkaa/kinoteka/catalog-module/internal/config"
	"github.com/bigkaa/kinoteka/catalog-module/internal/database"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/mapper"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
	"github.com/bigkaa/kinoteka/catalog-module/internal/server"
	"github.com/bigkaa/kinoteka/catalog-module/internal/service"
	"github.com/bigkaa/kinoteka/catalog-module/internal/storage"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

const serviceName = "catalog-module"

func main() {
	// 0. .env (если есть) — до чтения конфигурации
	loaded, err := config.LoadDotEnv()
	if err != nil {
		slog.Error("Ошибка чтения .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 1. Конфигурация из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Логирование
	logger := config.SetupLogger(cfg)
	logger.Info("Catalog Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.Any("env_files", loaded),
	)

	if os.Getenv("CM_DEPHEALTH_GROUP") == "" {
		logger.Warn("CM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Миграции
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Внешние клиенты: TMDB и объектное хранилище
	tmdbClient := tmdb.New(tmdb.Options{
		BaseURL:   cfg.TMDBBaseURL,
		APIKey:    cfg.TMDBAPIKey,
		Language:  cfg.TMDBLanguage,
		Timeout:   cfg.TMDBTimeout,
		RateLimit: cfg.TMDBRateLimit,
		RateBurst: cfg.TMDBRateBurst,
		Cache:     tmdb.NewDetailCache(cfg.TMDBDetailCacheSize, cfg.TMDBDetailCacheTTL),
	}, logger)

	storageClient, err := storage.New(storage.Options{
		BaseURL:      cfg.StorageURL,
		ServiceKey:   cfg.StorageServiceKey,
		CacheControl: cfg.StorageCacheControl,
		Timeout:      cfg.StorageTimeout,
		CACertPath:   cfg.CACertPath,
	}, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. Repositories
	filmRepo := repository.NewFilmRepository(pool)
	genreRepo := repository.NewGenreRepository(pool)
	seriesRepo := repository.NewSeriesRepository(pool)
	adminLogRepo := repository.NewAdminLogRepository(pool)

	// 7. Services
	genreSvc := service.NewGenreService(genreRepo, cfg.GenreCacheTTL, logger)
	rules := mapper.DefaultRules(mapper.RuleOptions{VIPFromAdult: cfg.CategoryVIPFromAdult})
	metadataSvc := service.NewMetadataService(tmdbClient, genreSvc, rules, logger)
	auditSvc := service.NewAuditService(adminLogRepo, logger)
	submissionSvc := service.NewFilmSubmissionService(
		filmRepo, storageClient, genreSvc, auditSvc,
		cfg.StorageUploadConcurrency,
		logger,
	)
	filmSvc := service.NewFilmService(filmRepo)
	seriesSvc := service.NewSeriesService(seriesRepo, logger)

	// 8. Readiness checkers (PostgreSQL, Keycloak, TMDB)
	kcChecker, err := middleware.NewKeycloakReadinessChecker(cfg.JWTJWKSURL, cfg.CACertPath, cfg.KeycloakReadinessTimeout)
	if err != nil {
		logger.Error("Ошибка создания Keycloak readiness checker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	healthHandler := handlers.NewHealthHandler(
		database.NewReadinessChecker(pool),
		kcChecker,
		tmdb.NewReadinessChecker(tmdbClient, cfg.TMDBTimeout),
	)

	// 9. API handler (реализует generated.ServerInterface)
	apiHandler := handlers.NewAPIHandler(handlers.Deps{
		Health:         healthHandler,
		Metadata:       metadataSvc,
		Submit:         submissionSvc,
		Films:          filmSvc,
		Genres:         genreSvc,
		Series:         seriesSvc,
		MaxUploadBytes: int64(cfg.MaxUploadSizeMB) << 20,
	}, logger)

	// 10. JWT middleware
	jwtAuth, err := middleware.NewJWTAuth(middleware.JWTOptions{
		JWKSURL:         cfg.JWTJWKSURL,
		CACertPath:      cfg.CACertPath,
		Issuer:          cfg.JWTIssuer,
		AdminGroups:     cfg.RoleAdminGroups,
		EditorGroups:    cfg.RoleEditorGroups,
		ClientTimeout:   cfg.JWKSClientTimeout,
		RefreshInterval: cfg.JWKSRefreshInterval,
		Leeway:          cfg.JWTLeeway,
	}, logger)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// 11. topologymetrics — PostgreSQL, Keycloak, хранилище
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthConfig{
		ServiceID:       serviceName,
		Group:           cfg.DephealthGroup,
		DB:              pgDB,
		PostgresURL:     cfg.DatabaseURL(),
		KeycloakJWKSURL: cfg.JWTJWKSURL,
		StorageURL:      cfg.StorageURL,
		CheckInterval:   cfg.DephealthCheckInterval,
		TLSSkipVerify:   cfg.DephealthTLSSkipVerify,
	}, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
	} else {
		healthHandler.SetDependencyReporter(dephealthSvc)
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 12. HTTP-сервер
	srv := server.New(cfg, logger, apiHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	logger.Info("Catalog Module остановлен")
}
