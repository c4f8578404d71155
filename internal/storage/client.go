// Пакет storage — клиент объектного хранилища с REST API в стиле
// Supabase Storage: загрузка объектов в бакеты и публичные URL.
//
// Загрузка: POST {base}/object/{bucket}/{key}, без перезаписи (x-upsert: false).
// Публичный URL: {base}/object/public/{bucket}/{key}.
package storage

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Бакеты медиа каталога.
const (
	BucketActorPhotos = "actor-photos"
	BucketPosters     = "film-posters"
	BucketBackdrops   = "film-backdrops"
	BucketVideos      = "film-videos"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cm_storage_uploads_total",
		Help: "Общее количество загрузок в объектное хранилище.",
	}, []string{"bucket", "status"})

	uploadBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cm_storage_upload_bytes_total",
		Help: "Объём загруженных данных в байтах.",
	}, []string{"bucket"})
)

// Error — ошибка хранилища; Message передаётся пользователю без изменений.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// errorBody — тело ошибки хранилища.
type errorBody struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Options — параметры клиента.
type Options struct {
	// BaseURL — адрес API хранилища, например https://xyz.supabase.co/storage/v1
	BaseURL    string
	ServiceKey string
	// CacheControl — max-age в секундах для загружаемых объектов
	CacheControl string
	// Timeout — таймаут запроса; 0 — без таймаута
	Timeout time.Duration
	// CACertPath — CA-сертификат для TLS (пусто — системный пул)
	CACertPath string
}

// Client — HTTP-клиент объектного хранилища.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	serviceKey   string
	cacheControl string
	logger       *slog.Logger
}

// Object — загруженный объект.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	PublicURL   string
}

// New создаёт клиент хранилища.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: max(opts.Timeout, 0)}

	if opts.CACertPath != "" {
		tlsConfig, err := buildTLSConfig(opts.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата хранилища: %w", err)
		}
		httpClient.Transport = &http.Transport{TLSClientConfig: tlsConfig}
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		serviceKey:   opts.ServiceKey,
		cacheControl: opts.CacheControl,
		logger:       logger.With(slog.String("component", "storage_client")),
	}, nil
}

func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("файл %s не содержит PEM-сертификатов", caCertPath)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Upload загружает объект. Если contentType пуст или общий
// (application/octet-stream), тип определяется по содержимому.
// Существующий объект с тем же ключом не перезаписывается.
func (c *Client) Upload(ctx context.Context, bucket, key string, body io.ReadSeeker, contentType string) (*Object, error) {
	if contentType == "" || contentType == "application/octet-stream" {
		detected, err := detectContentType(body)
		if err != nil {
			return nil, fmt.Errorf("определение типа %s/%s: %w", bucket, key, err)
		}
		contentType = detected
	}

	size, err := body.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("определение размера %s/%s: %w", bucket, key, err)
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("перемотка %s/%s: %w", bucket, key, err)
	}

	reqURL := c.baseURL + "/object/" + bucket + "/" + escapeKey(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, io.NopCloser(body))
	if err != nil {
		return nil, fmt.Errorf("создание запроса загрузки: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")
	if c.cacheControl != "" {
		req.Header.Set("Cache-Control", "max-age="+c.cacheControl)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		uploadsTotal.WithLabelValues(bucket, "error").Inc()
		return nil, fmt.Errorf("загрузка %s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		uploadsTotal.WithLabelValues(bucket, "error").Inc()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	uploadsTotal.WithLabelValues(bucket, "ok").Inc()
	uploadBytesTotal.WithLabelValues(bucket).Add(float64(size))

	c.logger.Debug("Объект загружен",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.String("content_type", contentType),
		slog.Int64("size", size),
	)

	return &Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		Size:        size,
		PublicURL:   c.PublicURL(bucket, key),
	}, nil
}

// PublicURL — публичный адрес объекта в бакете.
func (c *Client) PublicURL(bucket, key string) string {
	return c.baseURL + "/object/public/" + bucket + "/" + escapeKey(key)
}

// detectContentType определяет MIME-тип по первым байтам и перематывает body.
func detectContentType(body io.ReadSeeker) (string, error) {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	mtype, err := mimetype.DetectReader(body)
	if err != nil {
		return "", err
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// errorMessage извлекает message из JSON-ошибки хранилища.
func errorMessage(status int, raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fmt.Sprintf("хранилище вернуло статус %d", status)
}
