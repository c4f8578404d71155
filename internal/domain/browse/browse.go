// Пакет browse — фильтрация списка сериалов: жанр, VIP и поиск по названию.
// Фильтр отражается в параметрах URL в обе стороны (ParseFilter / Values).
package browse

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bigkaa/kinoteka/catalog-module/internal/debounce"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
)

// Имена параметров URL.
const (
	ParamGenre = "genre"
	ParamVIP   = "vip"
	ParamQuery = "q"
)

// Значения фильтра VIP.
const (
	VIPAny  = ""
	VIPOnly = "true"
	VIPExcl = "false"
)

// Filter — текущие условия фильтрации.
type Filter struct {
	Genre string
	// VIP — "" (все), "true" (только VIP) или "false" (без VIP)
	VIP   string
	Query string
}

// ParseFilter читает фильтр из параметров URL. Неизвестное значение vip
// трактуется как «все».
func ParseFilter(v url.Values) Filter {
	return NewFilter(v.Get(ParamGenre), v.Get(ParamVIP), v.Get(ParamQuery))
}

// NewFilter собирает фильтр из значений параметров; vip нормализуется
// так же, как в ParseFilter.
func NewFilter(genre, vip, query string) Filter {
	if vip != VIPOnly && vip != VIPExcl {
		vip = VIPAny
	}
	return Filter{Genre: genre, VIP: vip, Query: query}
}

// Values возвращает параметры URL; пустые значения опускаются.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Genre != "" {
		v.Set(ParamGenre, f.Genre)
	}
	if f.VIP != VIPAny {
		v.Set(ParamVIP, f.VIP)
	}
	if f.Query != "" {
		v.Set(ParamQuery, f.Query)
	}
	return v
}

// IsZero — фильтр ничего не отсекает.
func (f Filter) IsZero() bool {
	return f.Genre == "" && f.VIP == VIPAny && strings.TrimSpace(f.Query) == ""
}

// Reset сбрасывает все условия.
func (f *Filter) Reset() {
	*f = Filter{}
}

// Apply применяет фильтр по порядку: жанр (подстрока без учёта регистра),
// VIP, название (подстрока без учёта регистра, запрос обрезается).
// Исходный срез не изменяется.
func Apply(list []model.Series, f Filter) []model.Series {
	genre := strings.ToLower(f.Genre)
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.Series, 0, len(list))
	for _, s := range list {
		if genre != "" && !strings.Contains(strings.ToLower(s.Genre), genre) {
			continue
		}
		switch f.VIP {
		case VIPOnly:
			if !s.IsVIP {
				continue
			}
		case VIPExcl:
			if s.IsVIP {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(s.Title), query) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// State — состояние списка для отображения.
type State string

const (
	StateEmpty State = "empty"
	StateOK    State = "ok"
)

// Сообщения пустого списка.
const (
	EmptyFilteredMessage = "Aucune série ne correspond à vos critères."
	EmptyCatalogMessage  = "Aucune série disponible pour le moment."
)

// Result — отфильтрованный список и сопутствующее состояние.
type Result struct {
	State    State          `json:"state"`
	Items    []model.Series `json:"items"`
	Total    int            `json:"total"`
	Query    string         `json:"query"`
	Filtered bool           `json:"filtered"`
	Message  string         `json:"message,omitempty"`
}

// Browse фильтрует список и формирует результат для отображения.
func Browse(list []model.Series, f Filter) Result {
	items := Apply(list, f)
	r := Result{
		State:    StateOK,
		Items:    items,
		Total:    len(list),
		Query:    f.Values().Encode(),
		Filtered: !f.IsZero(),
	}
	if len(items) == 0 {
		r.State = StateEmpty
		r.Message = EmptyCatalogMessage
		if r.Filtered {
			r.Message = EmptyFilteredMessage
		}
	}
	return r
}

// DefaultDelay — задержка применения поиска по названию.
const DefaultDelay = 400 * time.Millisecond

// Session — интерактивное состояние браузера сериалов: жанр и VIP
// применяются сразу, поиск по названию — с дебаунсом.
type Session struct {
	mu        sync.Mutex
	list      []model.Series
	filter    Filter
	debouncer *debounce.Debouncer
	onChange  func(Result)
}

// NewSession создаёт сессию над загруженным списком.
// onChange вызывается при каждом применении фильтра.
func NewSession(list []model.Series, initial Filter, delay time.Duration, onChange func(Result)) *Session {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if onChange == nil {
		onChange = func(Result) {}
	}
	return &Session{
		list:      list,
		filter:    initial,
		debouncer: debounce.New(delay),
		onChange:  onChange,
	}
}

// SetGenre меняет жанр и применяет фильтр немедленно.
func (s *Session) SetGenre(genre string) {
	s.update(func(f *Filter) { f.Genre = genre })
}

// SetVIP меняет фильтр VIP и применяет его немедленно.
func (s *Session) SetVIP(vip string) {
	s.update(func(f *Filter) { f.VIP = vip })
}

// SetQuery меняет поиск по названию; применяется после паузы ввода.
func (s *Session) SetQuery(query string) {
	s.debouncer.Trigger(func() {
		s.update(func(f *Filter) { f.Query = query })
	})
}

// Reset сбрасывает фильтр и отменяет отложенный поиск.
func (s *Session) Reset() {
	s.debouncer.Cancel()
	s.update(func(f *Filter) { f.Reset() })
}

// Filter — текущий применённый фильтр.
func (s *Session) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Close отменяет отложенный поиск.
func (s *Session) Close() {
	s.debouncer.Cancel()
}

func (s *Session) update(change func(f *Filter)) {
	s.mu.Lock()
	change(&s.filter)
	r := Browse(s.list, s.filter)
	s.mu.Unlock()
	s.onChange(r)
}
