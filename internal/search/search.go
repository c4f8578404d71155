// Пакет search — сессия живого поиска фильмов в TMDB для формы добавления.
// Ввод дебаунсится, каждый запрос помечается поколением: ответы устаревших
// поколений отбрасываются, поэтому результаты старого запроса не могут
// перезаписать результаты нового.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bigkaa/kinoteka/catalog-module/internal/debounce"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/mapper"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

// DefaultDelay — задержка дебаунса ввода.
const DefaultDelay = 400 * time.Millisecond

// ErrorMessage — сообщение пользователю, если TMDB не вернул своего.
const ErrorMessage = "Erreur lors de la recherche TMDB."

// ErrSuperseded — выбор фильма вытеснен более поздним выбором.
var ErrSuperseded = errors.New("выбор фильма вытеснен более поздним")

// Searcher — поиск фильмов по названию.
type Searcher interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.MovieSummary, error)
}

// DetailFetcher — получение детальной карточки фильма.
type DetailFetcher interface {
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// Update — очередное состояние списка результатов.
type Update struct {
	Generation uint64
	Query      string
	Results    []tmdb.MovieSummary
	// Err — ошибка поиска; сессия после неё продолжает работать
	Err error
}

// Message — текст ошибки для пользователя.
func (u Update) Message() string {
	return ErrorText(u.Err)
}

// ErrorText — сообщение TMDB, если оно есть, иначе ErrorMessage.
// Для nil возвращает пустую строку.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *tmdb.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return ErrorMessage
}

// Config — зависимости сессии.
type Config struct {
	Searcher Searcher
	Details  DetailFetcher
	Delay    time.Duration
	Rules    []mapper.Rule
	// Now — источник текущего времени (для года по умолчанию и правила new)
	Now func() time.Time
	// OnUpdate вызывается на каждое актуальное обновление результатов,
	// последовательно и в порядке поколений. Вызывать методы сессии
	// из OnUpdate нельзя.
	OnUpdate func(Update)
	Logger   *slog.Logger
}

// Session — состояние поля поиска одной формы. Методы безопасны для
// конкурентного вызова.
type Session struct {
	cfg       Config
	debouncer *debounce.Debouncer
	logger    *slog.Logger

	gen       atomic.Uint64
	selectGen atomic.Uint64

	// emitMu делает проверку поколения и вызов OnUpdate атомарными
	emitMu sync.Mutex

	mu       sync.Mutex
	cancel   context.CancelFunc
	baseCtx  context.Context
	stopBase context.CancelFunc
}

// NewSession создаёт сессию поиска.
func NewSession(cfg Config) *Session {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OnUpdate == nil {
		cfg.OnUpdate = func(Update) {}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	base, stop := context.WithCancel(context.Background())
	return &Session{
		cfg:       cfg,
		debouncer: debounce.New(cfg.Delay),
		logger:    cfg.Logger.With(slog.String("component", "search_session")),
		baseCtx:   base,
		stopBase:  stop,
	}
}

// Type обрабатывает изменение текста запроса. Пустой запрос сразу
// очищает результаты и отменяет отложенный и текущий запросы.
func (s *Session) Type(query string) {
	if strings.TrimSpace(query) == "" {
		s.debouncer.Cancel()
		gen := s.invalidate()
		s.emit(Update{Generation: gen, Query: query, Results: []tmdb.MovieSummary{}})
		return
	}
	s.debouncer.Trigger(func() { s.issue(query) })
}

// Submit выполняет поиск немедленно, без дебаунса.
func (s *Session) Submit(query string) {
	s.debouncer.Cancel()
	if strings.TrimSpace(query) == "" {
		s.Type(query)
		return
	}
	s.issue(query)
}

// Select применяет выбранный результат: очищает запрос и список,
// запрашивает детальную карточку и возвращает предложенные поля.
// Ошибка детальной карточки не блокирует выбор.
func (s *Session) Select(ctx context.Context, summary tmdb.MovieSummary, genres []model.Genre) (mapper.FieldUpdates, error) {
	s.debouncer.Cancel()
	gen := s.invalidate()
	s.emit(Update{Generation: gen, Results: []tmdb.MovieSummary{}})

	sel := s.selectGen.Add(1)
	updates := Resolve(ctx, s.cfg.Details, summary, genres, s.cfg.Now(), s.cfg.Rules, s.logger)
	if s.selectGen.Load() != sel {
		return mapper.FieldUpdates{}, ErrSuperseded
	}
	return updates, nil
}

// Close отменяет отложенный и текущий запросы.
func (s *Session) Close() {
	s.debouncer.Cancel()
	s.invalidate()
	s.stopBase()
}

// issue выполняет поиск в новом поколении; предыдущий запрос отменяется.
func (s *Session) issue(query string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	gen := s.gen.Add(1)
	s.mu.Unlock()
	defer cancel()

	results, err := s.cfg.Searcher.SearchMovies(ctx, query)
	u := Update{Generation: gen, Query: query, Results: results, Err: err}
	if err != nil {
		u.Results = nil
	}
	if !s.emit(u) {
		s.logger.Debug("Устаревший ответ поиска отброшен",
			slog.String("query", query),
			slog.Uint64("generation", gen),
		)
		return
	}
	if err != nil {
		s.logger.Warn("Ошибка поиска TMDB",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
	}
}

// emit вызывает OnUpdate, если поколение обновления ещё актуально.
// Возвращает false для устаревшего обновления.
func (s *Session) emit(u Update) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.gen.Load() != u.Generation {
		return false
	}
	s.cfg.OnUpdate(u)
	return true
}

// invalidate начинает новое поколение без запроса и отменяет текущий.
func (s *Session) invalidate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.gen.Add(1)
}

// Resolve запрашивает детальную карточку (если у фильма есть id) и строит
// предложенные поля. Ошибка детальной карточки логируется и поглощается:
// возвращаются поля только из результата поиска.
func Resolve(
	ctx context.Context,
	details DetailFetcher,
	summary tmdb.MovieSummary,
	genres []model.Genre,
	now time.Time,
	rules []mapper.Rule,
	logger *slog.Logger,
) mapper.FieldUpdates {
	var d *tmdb.MovieDetails
	if details != nil && summary.ID > 0 {
		var err error
		d, err = details.MovieDetails(ctx, summary.ID)
		if err != nil {
			logger.Warn("Детальная карточка TMDB недоступна, автозаполнение по результату поиска",
				slog.Int("tmdb_id", summary.ID),
				slog.String("error", err.Error()),
			)
			d = nil
		}
	}
	return mapper.Map(summary, d, genres, now, rules)
}
