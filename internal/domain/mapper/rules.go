package mapper

import (
	"time"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

// Input — данные, на которых вычисляются правила категорий.
type Input struct {
	Summary tmdb.MovieSummary
	Details *tmdb.MovieDetails
	Now     time.Time
}

// Rule — правило «условие → метка». Правила независимы,
// итоговый набор — объединение сработавших.
type Rule struct {
	Tag   model.CategoryTag
	Match func(in Input) bool
}

// RuleOptions — настраиваемые части таблицы правил.
type RuleOptions struct {
	// VIPFromAdult — ставить vip, если TMDB помечает фильм как adult.
	VIPFromAdult bool
}

// Пороги популярности для метки top.
const (
	topMinVotes      = 1000
	topMinPopularity = 100
)

// DefaultRules — таблица правил автозаполнения категорий главной страницы.
func DefaultRules(opts RuleOptions) []Rule {
	rules := []Rule{
		{Tag: model.CategoryNew, Match: isRecent},
		{Tag: model.CategoryTop, Match: isPopular},
	}
	if opts.VIPFromAdult {
		rules = append(rules, Rule{Tag: model.CategoryVIP, Match: isAdult})
	}
	rules = append(rules, Rule{Tag: model.CategoryFeatured, Match: hasArtwork})
	return rules
}

// EvaluateCategories применяет правила и возвращает сработавшие метки
// в порядке таблицы, без повторов.
func EvaluateCategories(rules []Rule, in Input) []model.CategoryTag {
	tags := make([]model.CategoryTag, 0, len(rules))
	for _, r := range rules {
		if r.Match != nil && r.Match(in) {
			tags = append(tags, r.Tag)
		}
	}
	return model.NormalizeCategories(tags)
}

// isRecent — год выхода не раньше прошлого года.
func isRecent(in Input) bool {
	year, ok := in.Summary.ReleaseYear()
	return ok && year >= in.Now.Year()-1
}

func isPopular(in Input) bool {
	return in.Summary.VoteCount > topMinVotes || in.Summary.Popularity > topMinPopularity
}

func isAdult(in Input) bool {
	return in.Details != nil && in.Details.Adult
}

func hasArtwork(in Input) bool {
	return in.Summary.PosterPath != "" && in.Summary.BackdropPath != ""
}
