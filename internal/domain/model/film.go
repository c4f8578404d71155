package model

import "time"

// CategoryTag — метка раздела главной страницы.
type CategoryTag string

// Допустимые метки разделов главной страницы.
const (
	CategoryFeatured CategoryTag = "featured"
	CategoryNew      CategoryTag = "new"
	CategoryTop      CategoryTag = "top"
	CategoryVIP      CategoryTag = "vip"
)

// IsValid сообщает, является ли метка одной из допустимых.
func (c CategoryTag) IsValid() bool {
	switch c {
	case CategoryFeatured, CategoryNew, CategoryTop, CategoryVIP:
		return true
	}
	return false
}

// NormalizeCategories убирает недопустимые метки и дубликаты,
// сохраняя порядок первого вхождения.
func NormalizeCategories(tags []CategoryTag) []CategoryTag {
	seen := make(map[CategoryTag]bool, len(tags))
	out := make([]CategoryTag, 0, len(tags))
	for _, t := range tags {
		if !t.IsValid() || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// CastMember — участник актёрского состава в сохранённой записи фильма.
// Хранится в JSONB-колонке films."cast".
type CastMember struct {
	Name  string  `json:"name"`
	Role  string  `json:"role"`
	Photo *string `json:"photo"`
}

// Film — запись фильма в каталоге (таблица films).
// После вставки не изменяется этим модулем.
type Film struct {
	// ID — UUID фильма (генерируется при вставке)
	ID string `json:"id"`
	// Title — название (непустое)
	Title string `json:"title"`
	// OriginalTitle — оригинальное название
	OriginalTitle *string `json:"original_title"`
	Description   string  `json:"description"`
	// Year — год выхода; вместе с Title образует уникальный ключ
	Year int `json:"year"`
	// Duration — длительность в минутах
	Duration int     `json:"duration"`
	Director *string `json:"director"`
	// Genre — названия выбранных жанров через запятую
	Genre      *string      `json:"genre"`
	TrailerURL *string      `json:"trailer_url"`
	VideoURL   *string      `json:"video_url"`
	IsVIP      bool         `json:"isvip"`
	Published  bool         `json:"published"`
	Poster     *string      `json:"poster"`
	Backdrop   *string      `json:"backdrop"`
	Cast       []CastMember `json:"cast"`
	// HomepageCategories — метки разделов главной страницы
	HomepageCategories []CategoryTag `json:"homepage_categories"`
	CreatedAt          time.Time     `json:"created_at"`
}
