// film_submission.go — конвейер публикации фильма.
//
// Этапы выполняются строго последовательно:
//  0. валидация (без побочных эффектов);
//  1. загрузка фото актёров (параллельно, ожидание всех);
//  2. постер, фон, видео — загрузка файла или URL превью;
//  3. проверка дубликата (title, year);
//  4. вставка записи;
//  5. запись в журнал (best effort).
//
// Загруженные объекты при последующей ошибке не удаляются,
// их ключи пишутся в лог для ручной очистки.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sourcegraph/conc/pool"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
	"github.com/bigkaa/kinoteka/catalog-module/internal/storage"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cm_film_submissions_total",
		Help: "Публикации фильмов по результату (success, validation, upload, duplicate, error).",
	}, []string{"outcome"})

	submissionsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cm_film_submissions_in_flight",
		Help: "Количество публикаций фильмов, выполняющихся в данный момент.",
	})

	submissionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cm_film_submission_duration_seconds",
		Help:    "Длительность публикации фильма в секундах.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

// Uploader — загрузка объектов в хранилище.
type Uploader interface {
	Upload(ctx context.Context, bucket, key string, body io.ReadSeeker, contentType string) (*storage.Object, error)
}

// FilmAuditor — запись факта публикации в журнал.
type FilmAuditor interface {
	FilmAdded(ctx context.Context, adminID string, film *model.Film)
}

// FilmSubmissionService — публикация черновика фильма в каталог.
type FilmSubmissionService struct {
	films       repository.FilmRepository
	uploader    Uploader
	genres      GenreProvider
	audit       FilmAuditor
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// NewFilmSubmissionService создаёт сервис публикации.
// concurrency — максимум одновременных загрузок фото актёров.
func NewFilmSubmissionService(
	films repository.FilmRepository,
	uploader Uploader,
	genres GenreProvider,
	audit FilmAuditor,
	concurrency int,
	logger *slog.Logger,
) *FilmSubmissionService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FilmSubmissionService{
		films:       films,
		uploader:    uploader,
		genres:      genres,
		audit:       audit,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger.With(slog.String("component", "film_submission")),
	}
}

// Validate проверяет черновик без побочных эффектов.
func Validate(d *model.FilmDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Message: MsgTitleRequired}
	}
	if len(d.GenreIDs) == 0 {
		return &ValidationError{Message: MsgGenreRequired}
	}
	return nil
}

// Submit публикует черновик. adminID — субъект JWT для журнала.
//
// Ошибки: ErrValidation (ValidationError), ErrUpload (UploadError),
// ErrDuplicate, прочие — внутренние.
func (s *FilmSubmissionService) Submit(ctx context.Context, adminID string, d *model.FilmDraft) (film *model.Film, err error) {
	submissionsInFlight.Inc()
	start := time.Now()
	uploads := &uploadLog{}
	defer func() {
		submissionsInFlight.Dec()
		submissionDuration.Observe(time.Since(start).Seconds())
		submissionsTotal.WithLabelValues(outcome(err)).Inc()
		if err != nil && uploads.len() > 0 {
			s.logger.Warn("Публикация прервана, загруженные объекты остались в хранилище",
				slog.String("title", d.Title),
				slog.Any("objects", uploads.keys()),
				slog.String("error", err.Error()),
			)
		}
	}()

	if err := Validate(d); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(d.Title)
	now := s.now()

	// Этап 1: фото актёров
	cast, err := s.uploadCast(ctx, d.Cast, now, uploads)
	if err != nil {
		return nil, err
	}

	// Этап 2: медиа фильма
	poster, err := s.resolveMedia(ctx, d.Poster, storage.BucketPosters, storage.PrefixPosters, now, uploads)
	if err != nil {
		return nil, err
	}
	backdrop, err := s.resolveMedia(ctx, d.Backdrop, storage.BucketBackdrops, storage.PrefixBackdrops, now, uploads)
	if err != nil {
		return nil, err
	}
	video, err := s.resolveMedia(ctx, d.Video, storage.BucketVideos, storage.PrefixVideos, now, uploads)
	if err != nil {
		return nil, err
	}

	// Этап 3: дубликат
	exists, err := s.films.ExistsByTitleYear(ctx, title, d.Year)
	if err != nil {
		return nil, fmt.Errorf("проверка дубликата: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	// Этап 4: вставка
	genres, err := s.genres.List(ctx)
	if err != nil {
		return nil, err
	}

	film = &model.Film{
		Title:              title,
		OriginalTitle:      optional(d.OriginalTitle),
		Description:        d.Description,
		Year:               d.Year,
		Duration:           d.Duration,
		Director:           optional(d.Director),
		Genre:              optional(JoinGenreNames(genres, d.GenreIDs)),
		TrailerURL:         optional(d.TrailerURL),
		VideoURL:           video,
		IsVIP:              d.IsVIP,
		Published:          d.Published,
		Poster:             poster,
		Backdrop:           backdrop,
		Cast:               cast,
		HomepageCategories: model.NormalizeCategories(d.Categories),
	}
	if err := s.films.Create(ctx, film); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("сохранение фильма: %w", err)
	}

	// Этап 5: журнал
	s.audit.FilmAdded(ctx, adminID, film)

	s.logger.Info("Фильм добавлен в каталог",
		slog.String("film_id", film.ID),
		slog.String("title", film.Title),
		slog.Int("year", film.Year),
		slog.Int("uploads", uploads.len()),
		slog.String("admin_id", adminID),
	)
	return film, nil
}

// uploadCast отбрасывает актёров без имени и загружает приложенные фото.
// Загрузки идут параллельно; первая ошибка прерывает публикацию после
// завершения остальных.
func (s *FilmSubmissionService) uploadCast(ctx context.Context, members []model.DraftCastMember, now time.Time, uploads *uploadLog) ([]model.CastMember, error) {
	kept := make([]model.DraftCastMember, 0, len(members))
	for _, m := range members {
		if strings.TrimSpace(m.Name) != "" {
			kept = append(kept, m)
		}
	}

	cast := make([]model.CastMember, len(kept))
	p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx).WithFirstError()
	for i, m := range kept {
		cast[i] = model.CastMember{Name: m.Name, Role: m.Role}
		if !m.Photo.HasUpload() {
			cast[i].Photo = optional(m.Photo.URL)
			continue
		}
		p.Go(func(ctx context.Context) error {
			key := storage.ActorPhotoKey(now, i, m.Photo.Upload.Filename)
			url, err := s.upload(ctx, storage.BucketActorPhotos, key, m.Photo.Upload, uploads)
			if err != nil {
				return err
			}
			cast[i].Photo = &url
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return cast, nil
}

// resolveMedia загружает приложенный файл или возвращает URL превью.
// Ни файла, ни URL — nil.
func (s *FilmSubmissionService) resolveMedia(ctx context.Context, ref model.MediaRef, bucket, prefix string, now time.Time, uploads *uploadLog) (*string, error) {
	if !ref.HasUpload() {
		return optional(ref.URL), nil
	}
	key := storage.MediaKey(prefix, now, ref.Upload.Filename)
	url, err := s.upload(ctx, bucket, key, ref.Upload, uploads)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

func (s *FilmSubmissionService) upload(ctx context.Context, bucket, key string, u *model.Upload, uploads *uploadLog) (string, error) {
	obj, err := s.uploader.Upload(ctx, bucket, key, u.Body, u.ContentType)
	if err != nil {
		s.logger.Warn("Ошибка загрузки файла",
			slog.String("bucket", bucket),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", &UploadError{Bucket: bucket, Key: key, Err: err}
	}
	uploads.add(bucket + "/" + key)
	return obj.PublicURL, nil
}

// uploadLog — ключи объектов, загруженных в рамках одной публикации.
type uploadLog struct {
	mu   sync.Mutex
	list []string
}

func (l *uploadLog) add(key string) {
	l.mu.Lock()
	l.list = append(l.list, key)
	l.mu.Unlock()
}

func (l *uploadLog) keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.list...)
}

func (l *uploadLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.list)
}

// optional — nil для пустой (после trim) строки.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// outcome — метка результата для метрик.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrUpload):
		return "upload"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	default:
		return "error"
	}
}
