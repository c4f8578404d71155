// Пакет config — загрузка и валидация конфигурации Catalog Module
// из переменных окружения (опционально — из .env файла).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Catalog Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8020-8029)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Файл для дублирования логов с ротацией (пусто — только stdout)
	LogFile string
	// Максимальный размер файла лога в мегабайтах до ротации
	LogFileMaxSizeMB int
	// Количество хранимых ротированных файлов
	LogFileMaxBackups int

	// --- PostgreSQL ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Максимальный размер пула соединений
	DBMaxConns int

	// --- Keycloak / JWT ---

	// URL Keycloak (например, https://keycloak.kryukov.lan)
	KeycloakURL string
	// Имя realm в Keycloak
	KeycloakRealm string
	// Issuer JWT (авто-вычисляется из KeycloakURL, если не задан)
	JWTIssuer string
	// URL JWKS endpoint (авто-вычисляется из KeycloakURL, если не задан)
	JWTJWKSURL string
	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Интервал фонового обновления JWKS
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение часов при проверке exp/nbf
	JWTLeeway time.Duration
	// Таймаут readiness-проверки Keycloak
	KeycloakReadinessTimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений с Keycloak (опционально)
	CACertPath string

	// --- Маппинг групп → ролей ---

	// Группы Keycloak, дающие роль admin (через запятую)
	RoleAdminGroups []string
	// Группы Keycloak, дающие роль editor (через запятую)
	RoleEditorGroups []string

	// --- TMDB ---

	// Базовый URL TMDB API v3
	TMDBBaseURL string
	// API-ключ TMDB
	TMDBAPIKey string
	// Язык ответов TMDB (fr-FR)
	TMDBLanguage string
	// Таймаут HTTP-запросов к TMDB
	TMDBTimeout time.Duration
	// Ограничение частоты запросов к TMDB (запросов в секунду, 0 — без ограничения)
	TMDBRateLimit float64
	// Размер пачки для rate limiter
	TMDBRateBurst int
	// Максимум записей в кэше детальных карточек
	TMDBDetailCacheSize int
	// TTL записи в кэше детальных карточек
	TMDBDetailCacheTTL time.Duration

	// --- Объектное хранилище ---

	// Базовый URL Storage API (например, https://xyz.supabase.co/storage/v1)
	StorageURL string
	// Сервисный ключ для загрузки объектов
	StorageServiceKey string
	// Таймаут HTTP-запросов к хранилищу
	StorageTimeout time.Duration
	// Значение cache-control для загружаемых объектов (секунды)
	StorageCacheControl string
	// Параллельность загрузки фотографий актёров
	StorageUploadConcurrency int
	// Максимальный размер multipart-запроса добавления фильма (МБ)
	MaxUploadSizeMB int

	// --- Каталог ---

	// TTL кэша справочника жанров
	GenreCacheTTL time.Duration
	// Ставить категорию vip по флагу adult из TMDB
	CategoryVIPFromAdult bool

	// --- topologymetrics ---

	// Группа в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Не проверять TLS-сертификаты HTTP-зависимостей (dev-среда с self-signed)
	DephealthTLSSkipVerify bool

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// LoadDotEnv подгружает переменные из .env файлов, не перетирая уже заданные.
// Отсутствующие файлы пропускаются. Возвращает список реально прочитанных файлов.
func LoadDotEnv(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("чтение %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	cfg.Port, err = getEnvInt("CM_PORT", 8020)
	if err != nil {
		return nil, fmt.Errorf("CM_PORT: %w", err)
	}
	if cfg.Port < 8020 || cfg.Port > 8029 {
		return nil, fmt.Errorf("CM_PORT: значение %d вне допустимого диапазона 8020-8029", cfg.Port)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("CM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("CM_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("CM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	cfg.LogFile = getEnvDefault("CM_LOG_FILE", "")
	cfg.LogFileMaxSizeMB, err = getEnvInt("CM_LOG_FILE_MAX_SIZE_MB", 100)
	if err != nil {
		return nil, fmt.Errorf("CM_LOG_FILE_MAX_SIZE_MB: %w", err)
	}
	cfg.LogFileMaxBackups, err = getEnvInt("CM_LOG_FILE_MAX_BACKUPS", 3)
	if err != nil {
		return nil, fmt.Errorf("CM_LOG_FILE_MAX_BACKUPS: %w", err)
	}

	// --- PostgreSQL ---

	if cfg.DBHost, err = getEnvRequired("CM_DB_HOST"); err != nil {
		return nil, err
	}
	cfg.DBPort, err = getEnvInt("CM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("CM_DB_PORT: %w", err)
	}
	if cfg.DBName, err = getEnvRequired("CM_DB_NAME"); err != nil {
		return nil, err
	}
	if cfg.DBUser, err = getEnvRequired("CM_DB_USER"); err != nil {
		return nil, err
	}
	if cfg.DBPassword, err = getEnvRequired("CM_DB_PASSWORD"); err != nil {
		return nil, err
	}
	cfg.DBSSLMode = getEnvDefault("CM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("CM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}
	if cfg.DBMaxConns, err = getEnvInt("CM_DB_MAX_CONNS", 10); err != nil {
		return nil, fmt.Errorf("CM_DB_MAX_CONNS: %w", err)
	}
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return nil, fmt.Errorf("CM_DB_MAX_CONNS: значение %d вне допустимого диапазона 1-200", cfg.DBMaxConns)
	}

	// --- Keycloak / JWT ---

	if cfg.KeycloakURL, err = getEnvRequired("CM_KEYCLOAK_URL"); err != nil {
		return nil, err
	}
	cfg.KeycloakURL = strings.TrimRight(cfg.KeycloakURL, "/")
	cfg.KeycloakRealm = getEnvDefault("CM_KEYCLOAK_REALM", "kinoteka")

	cfg.JWTIssuer = getEnvDefault("CM_JWT_ISSUER",
		fmt.Sprintf("%s/realms/%s", cfg.KeycloakURL, cfg.KeycloakRealm))
	cfg.JWTJWKSURL = getEnvDefault("CM_JWT_JWKS_URL",
		fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", cfg.KeycloakURL, cfg.KeycloakRealm))

	if cfg.JWKSClientTimeout, err = getEnvDuration("CM_JWKS_CLIENT_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("CM_JWKS_CLIENT_TIMEOUT: %w", err)
	}
	if cfg.JWKSRefreshInterval, err = getEnvDuration("CM_JWKS_REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, fmt.Errorf("CM_JWKS_REFRESH_INTERVAL: %w", err)
	}
	if cfg.JWTLeeway, err = getEnvDuration("CM_JWT_LEEWAY", 5*time.Second); err != nil {
		return nil, fmt.Errorf("CM_JWT_LEEWAY: %w", err)
	}
	if cfg.KeycloakReadinessTimeout, err = getEnvDuration("CM_KEYCLOAK_READINESS_TIMEOUT", 3*time.Second); err != nil {
		return nil, fmt.Errorf("CM_KEYCLOAK_READINESS_TIMEOUT: %w", err)
	}
	cfg.CACertPath = getEnvDefault("CM_CA_CERT_PATH", "")

	cfg.RoleAdminGroups = parseCSV(getEnvDefault("CM_ROLE_ADMIN_GROUPS", "kinoteka-admins"))
	cfg.RoleEditorGroups = parseCSV(getEnvDefault("CM_ROLE_EDITOR_GROUPS", "kinoteka-editors"))

	// --- TMDB ---

	cfg.TMDBBaseURL = strings.TrimRight(getEnvDefault("CM_TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/")
	if cfg.TMDBAPIKey, err = getEnvRequired("CM_TMDB_API_KEY"); err != nil {
		return nil, err
	}
	cfg.TMDBLanguage = getEnvDefault("CM_TMDB_LANGUAGE", "fr-FR")
	if cfg.TMDBTimeout, err = getEnvDuration("CM_TMDB_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("CM_TMDB_TIMEOUT: %w", err)
	}
	if cfg.TMDBRateLimit, err = getEnvFloat("CM_TMDB_RATE_LIMIT", 20); err != nil {
		return nil, fmt.Errorf("CM_TMDB_RATE_LIMIT: %w", err)
	}
	if cfg.TMDBRateLimit < 0 {
		return nil, fmt.Errorf("CM_TMDB_RATE_LIMIT: отрицательное значение %v", cfg.TMDBRateLimit)
	}
	if cfg.TMDBRateBurst, err = getEnvInt("CM_TMDB_RATE_BURST", 10); err != nil {
		return nil, fmt.Errorf("CM_TMDB_RATE_BURST: %w", err)
	}
	if cfg.TMDBDetailCacheSize, err = getEnvInt("CM_TMDB_DETAIL_CACHE_SIZE", 500); err != nil {
		return nil, fmt.Errorf("CM_TMDB_DETAIL_CACHE_SIZE: %w", err)
	}
	if cfg.TMDBDetailCacheSize < 1 {
		return nil, fmt.Errorf("CM_TMDB_DETAIL_CACHE_SIZE: значение %d должно быть положительным", cfg.TMDBDetailCacheSize)
	}
	if cfg.TMDBDetailCacheTTL, err = getEnvDuration("CM_TMDB_DETAIL_CACHE_TTL", time.Hour); err != nil {
		return nil, fmt.Errorf("CM_TMDB_DETAIL_CACHE_TTL: %w", err)
	}

	// --- Объектное хранилище ---

	if cfg.StorageURL, err = getEnvRequired("CM_STORAGE_URL"); err != nil {
		return nil, err
	}
	cfg.StorageURL = strings.TrimRight(cfg.StorageURL, "/")
	if cfg.StorageServiceKey, err = getEnvRequired("CM_STORAGE_SERVICE_KEY"); err != nil {
		return nil, err
	}
	if cfg.StorageTimeout, err = getEnvDuration("CM_STORAGE_TIMEOUT", 5*time.Minute); err != nil {
		return nil, fmt.Errorf("CM_STORAGE_TIMEOUT: %w", err)
	}
	cfg.StorageCacheControl = getEnvDefault("CM_STORAGE_CACHE_CONTROL", "3600")
	if cfg.StorageUploadConcurrency, err = getEnvInt("CM_STORAGE_UPLOAD_CONCURRENCY", 4); err != nil {
		return nil, fmt.Errorf("CM_STORAGE_UPLOAD_CONCURRENCY: %w", err)
	}
	if cfg.StorageUploadConcurrency < 1 || cfg.StorageUploadConcurrency > 32 {
		return nil, fmt.Errorf("CM_STORAGE_UPLOAD_CONCURRENCY: значение %d вне допустимого диапазона 1-32", cfg.StorageUploadConcurrency)
	}
	if cfg.MaxUploadSizeMB, err = getEnvInt("CM_MAX_UPLOAD_SIZE_MB", 512); err != nil {
		return nil, fmt.Errorf("CM_MAX_UPLOAD_SIZE_MB: %w", err)
	}

	// --- Каталог ---

	if cfg.GenreCacheTTL, err = getEnvDuration("CM_GENRE_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, fmt.Errorf("CM_GENRE_CACHE_TTL: %w", err)
	}
	if cfg.CategoryVIPFromAdult, err = getEnvBool("CM_CATEGORY_VIP_FROM_ADULT", true); err != nil {
		return nil, fmt.Errorf("CM_CATEGORY_VIP_FROM_ADULT: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("CM_DEPHEALTH_GROUP", "kinoteka")
	if cfg.DephealthCheckInterval, err = getEnvDuration("CM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second); err != nil {
		return nil, fmt.Errorf("CM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	if cfg.DephealthTLSSkipVerify, err = getEnvBool("CM_DEPHEALTH_TLS_SKIP_VERIFY", false); err != nil {
		return nil, fmt.Errorf("CM_DEPHEALTH_TLS_SKIP_VERIFY: %w", err)
	}

	if cfg.ShutdownTimeout, err = getEnvDuration("CM_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, fmt.Errorf("CM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL без пароля (для лейблов метрик).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s", c.DBUser, c.DBHost, c.DBPort, c.DBName)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
// При заданном CM_LOG_FILE логи дублируются в файл с ротацией.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogFileMaxSizeMB,
			MaxBackups: cfg.LogFileMaxBackups,
			Compress:   true,
		})
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное число: %q", val)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q (true/false)", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 400ms, 30s, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
