// Пакет mapper — преобразование карточки TMDB в поля черновика фильма.
// Чистые функции без ввода-вывода: результат — предложение,
// которое пользователь может поправить перед публикацией.
package mapper

import (
	"time"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/tmdb"
)

// MaxCast — сколько первых актёров из титров переносится в черновик.
const MaxCast = 10

// FieldUpdates — поля черновика, предложенные автозаполнением.
//
// Поля из поиска заполняются всегда. Поля из детальной карточки
// заполняются только если соответствующее поле пришло от TMDB:
// nil-указатель или nil-срез означает «не трогать текущее значение»,
// пустой срез — «очистить».
type FieldUpdates struct {
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	Description   string `json:"description"`
	Year          int    `json:"year"`
	PosterURL     string `json:"poster_url"`
	BackdropURL   string `json:"backdrop_url"`

	Duration   *int                `json:"duration,omitempty"`
	Director   *string             `json:"director,omitempty"`
	GenreIDs   []string            `json:"genre_ids"`
	TrailerURL *string             `json:"trailer_url,omitempty"`
	VideoURL   *string             `json:"video_url,omitempty"`
	Cast       []model.CastMember  `json:"cast"`
	Categories []model.CategoryTag `json:"categories"`

	// DetailsApplied — была ли учтена детальная карточка.
	DetailsApplied bool `json:"details_applied"`
}

// Map вычисляет обновления черновика по результату поиска и (опционально)
// детальной карточке. genres — локальный справочник жанров.
func Map(summary tmdb.MovieSummary, details *tmdb.MovieDetails, genres []model.Genre, now time.Time, rules []Rule) FieldUpdates {
	u := FieldUpdates{
		Title:         summary.Title,
		OriginalTitle: summary.OriginalTitle,
		Description:   summary.Overview,
		Year:          now.Year(),
		PosterURL:     tmdb.ImageURL(summary.PosterPath, tmdb.SizePoster),
		BackdropURL:   tmdb.ImageURL(summary.BackdropPath, tmdb.SizeBackdrop),
	}
	if y, ok := summary.ReleaseYear(); ok {
		u.Year = y
	}

	if details == nil {
		return u
	}
	u.DetailsApplied = true

	if details.Runtime > 0 {
		d := details.Runtime
		u.Duration = &d
	}

	if details.Credits != nil && details.Credits.Crew != nil {
		d := findDirector(details.Credits.Crew)
		u.Director = &d
	}

	if details.Genres != nil {
		u.GenreIDs = ResolveGenreIDs(details.Genres, genres)
	}

	if details.Videos != nil && details.Videos.Results != nil {
		trailer, video := pickVideos(details.Videos.Results)
		u.TrailerURL = &trailer
		u.VideoURL = &video
	}

	if details.Credits != nil && len(details.Credits.Cast) > 0 {
		u.Cast = mapCast(details.Credits.Cast)
	}

	u.Categories = EvaluateCategories(rules, Input{Summary: summary, Details: details, Now: now})
	return u
}

// ResolveGenreIDs возвращает id локальных жанров, чьё название точно
// (с учётом регистра) совпадает с одним из жанров TMDB. Неизвестные жанры
// отбрасываются; порядок — как в локальном справочнике.
func ResolveGenreIDs(remote []tmdb.GenreRef, local []model.Genre) []string {
	names := make(map[string]bool, len(remote))
	for _, g := range remote {
		names[g.Name] = true
	}
	ids := make([]string, 0, len(remote))
	for _, g := range local {
		if names[g.Name] {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

func findDirector(crew []tmdb.CrewCredit) string {
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// pickVideos — первый трейлер YouTube и первое видео YouTube другого типа.
func pickVideos(videos []tmdb.Video) (trailer, main string) {
	for _, v := range videos {
		if v.Site != tmdb.SiteYouTube {
			continue
		}
		if v.Type == tmdb.VideoTypeTrailer {
			if trailer == "" {
				trailer = tmdb.YouTubeWatchURL(v.Key)
			}
		} else if main == "" {
			main = tmdb.YouTubeWatchURL(v.Key)
		}
	}
	return trailer, main
}

func mapCast(credits []tmdb.CastCredit) []model.CastMember {
	n := min(len(credits), MaxCast)
	cast := make([]model.CastMember, 0, n)
	for _, c := range credits[:n] {
		m := model.CastMember{Name: c.Name, Role: c.Character}
		if url := tmdb.ImageURL(c.ProfilePath, tmdb.SizeProfile); url != "" {
			m.Photo = &url
		}
		cast = append(cast, m)
	}
	return cast
}

// Apply переносит обновления в черновик. Приложенные локальные файлы
// сохраняются: при публикации они имеют приоритет над URL.
func (u FieldUpdates) Apply(d *model.FilmDraft) {
	d.Title = u.Title
	d.OriginalTitle = u.OriginalTitle
	d.Description = u.Description
	d.Year = u.Year
	d.Poster.URL = u.PosterURL
	d.Backdrop.URL = u.BackdropURL

	if u.Duration != nil {
		d.Duration = *u.Duration
	}
	if u.Director != nil {
		d.Director = *u.Director
	}
	if u.GenreIDs != nil {
		d.GenreIDs = append([]string(nil), u.GenreIDs...)
	}
	if u.TrailerURL != nil {
		d.TrailerURL = *u.TrailerURL
	}
	if u.VideoURL != nil {
		d.Video.URL = *u.VideoURL
	}
	if u.Cast != nil {
		d.Cast = make([]model.DraftCastMember, 0, len(u.Cast))
		for _, c := range u.Cast {
			m := model.DraftCastMember{Name: c.Name, Role: c.Role}
			if c.Photo != nil {
				m.Photo.URL = *c.Photo
			}
			d.Cast = append(d.Cast, m)
		}
	}
	if u.Categories != nil {
		d.Categories = append([]model.CategoryTag(nil), u.Categories...)
	}
}
