// Пакет tmdb — HTTP-клиент The Movie Database API v3.
// Операции: SearchMovies (GET /search/movie), MovieDetails
// (GET /movie/{id}?append_to_response=credits,videos), Ping (GET /configuration).
// Все ответы декодируются в типизированные структуры на границе клиента.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

// Prometheus-метрики исходящих запросов к TMDB.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cm_tmdb_requests_total",
		Help: "Общее количество запросов к TMDB API.",
	}, []string{"operation", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cm_tmdb_request_duration_seconds",
		Help:    "Длительность запросов к TMDB API в секундах.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// APIError — ошибка, возвращённая TMDB (status_message из тела ответа).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB вернул статус %d: %s", e.StatusCode, e.Message)
}

// ErrNotFound — фильм с указанным id отсутствует в TMDB.
var ErrNotFound = errors.New("фильм не найден в TMDB")

// Options — параметры клиента.
type Options struct {
	BaseURL  string
	APIKey   string
	Language string
	// Timeout — таймаут запроса; 0 — без таймаута
	Timeout time.Duration
	// RateLimit — запросов в секунду; 0 — без ограничения
	RateLimit float64
	RateBurst int
	// Cache — кэш детальных карточек; nil — без кэша
	Cache *DetailCache
}

// Client — HTTP-клиент TMDB.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	limiter    *rate.Limiter
	cache      *DetailCache
	logger     *slog.Logger
}

// New создаёт клиент TMDB.
func New(opts Options, logger *slog.Logger) *Client {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: max(opts.Timeout, 0)},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		language:   opts.Language,
		limiter:    rate.NewLimiter(limit, burst),
		cache:      opts.Cache,
		logger:     logger.With(slog.String("component", "tmdb_client")),
	}
}

// SearchMovies ищет фильмы по названию. Пустой (после trim) запрос
// не отправляется: возвращается пустой результат.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []MovieSummary{}, nil
	}

	params := url.Values{}
	params.Set("query", query)

	var resp searchResponse
	if err := c.get(ctx, "search", "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []MovieSummary{}
	}

	c.logger.Debug("Поиск TMDB выполнен",
		slog.String("query", query),
		slog.Int("results", len(resp.Results)),
	)
	return resp.Results, nil
}

// MovieDetails возвращает детальную карточку фильма вместе с титрами и видео.
// Успешные ответы кэшируются, если клиенту передан кэш.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("некорректный id фильма TMDB: %d", id)
	}
	if c.cache != nil {
		if d, ok := c.cache.Get(id); ok {
			return d, nil
		}
	}

	params := url.Values{}
	params.Set("append_to_response", "credits,videos")

	var details MovieDetails
	if err := c.get(ctx, "details", "/movie/"+strconv.Itoa(id), params, &details); err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(id, &details)
	}
	return &details, nil
}

// Ping проверяет доступность API и валидность ключа (GET /configuration).
func (c *Client) Ping(ctx context.Context) error {
	var discard json.RawMessage
	return c.get(ctx, "configuration", "/configuration", nil, &discard)
}

// get выполняет GET-запрос с ключом и языком и декодирует JSON в out.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("ожидание лимита запросов TMDB: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("создание запроса %s: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("запрос %s к TMDB: %w", operation, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if resp.StatusCode == http.StatusNotFound && operation == "details" {
			return ErrNotFound
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("декодирование ответа %s: %w", operation, err)
	}
	return nil
}

// errorMessage извлекает status_message из тела ошибки TMDB,
// иначе возвращает тело как есть.
func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.StatusMessage != "" {
		return e.StatusMessage
	}
	return strings.TrimSpace(string(body))
}

// ReadinessChecker — проверка доступности TMDB для /health/ready.
type ReadinessChecker struct {
	client  *Client
	timeout time.Duration
}

// NewReadinessChecker создаёт проверку готовности TMDB.
// Проверка всегда ограничена по времени: при timeout <= 0 используется 3s.
func NewReadinessChecker(client *Client, timeout time.Duration) *ReadinessChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ReadinessChecker{client: client, timeout: timeout}
}

// CheckReady возвращает "ok" или "degraded". TMDB — некритичная зависимость
// для чтения каталога, поэтому сбой отображается как degraded.
func (r *ReadinessChecker) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Ping(ctx); err != nil {
		return "degraded", fmt.Sprintf("TMDB недоступен: %v", err)
	}
	return "ok", "TMDB API доступен"
}
