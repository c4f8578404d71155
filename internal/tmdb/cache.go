package tmdb

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_tmdb_cache_hits_total",
		Help: "Общее количество попаданий в кэш детальных карточек TMDB.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_tmdb_cache_misses_total",
		Help: "Общее количество промахов кэша детальных карточек TMDB.",
	})
)

// DetailCache — LRU-кэш детальных карточек с TTL, ключ — id фильма TMDB.
// Кэш локален для экземпляра сервиса.
type DetailCache struct {
	cache *expirable.LRU[int, *MovieDetails]
}

// NewDetailCache создаёт кэш на maxSize записей с временем жизни ttl.
func NewDetailCache(maxSize int, ttl time.Duration) *DetailCache {
	return &DetailCache{cache: expirable.NewLRU[int, *MovieDetails](maxSize, nil, ttl)}
}

// Get возвращает карточку при hit.
func (c *DetailCache) Get(id int) (*MovieDetails, bool) {
	d, ok := c.cache.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return d, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет карточку.
func (c *DetailCache) Set(id int, d *MovieDetails) {
	c.cache.Add(id, d)
}

// Len — текущее число записей.
func (c *DetailCache) Len() int {
	return c.cache.Len()
}
