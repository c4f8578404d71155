package tmdb

import (
	"strconv"
	"strings"
)

// MovieSummary — элемент результата поиска /search/movie.
type MovieSummary struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	Adult         bool    `json:"adult"`
}

// ReleaseYear возвращает год из release_date ("2021-10-22" → 2021).
// ok=false, если дата пустая или не начинается с года.
func (m MovieSummary) ReleaseYear() (int, bool) {
	if m.ReleaseDate == "" {
		return 0, false
	}
	head, _, _ := strings.Cut(m.ReleaseDate, "-")
	y, err := strconv.Atoi(head)
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// searchResponse — ответ /search/movie.
type searchResponse struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// MovieDetails — детальная карточка /movie/{id}?append_to_response=credits,videos.
// Срезы и указатели остаются nil, если поле отсутствовало в ответе:
// маппер применяет правило только к присутствующим полям.
type MovieDetails struct {
	ID      int        `json:"id"`
	Runtime int        `json:"runtime"`
	Adult   bool       `json:"adult"`
	Genres  []GenreRef `json:"genres"`
	Credits *Credits   `json:"credits"`
	Videos  *Videos    `json:"videos"`
}

// GenreRef — жанр в терминах TMDB (название на языке запроса).
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits — актёры и съёмочная группа.
type Credits struct {
	Cast []CastCredit `json:"cast"`
	Crew []CrewCredit `json:"crew"`
}

// CastCredit — актёр в порядке титров.
type CastCredit struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewCredit — участник съёмочной группы.
type CrewCredit struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Videos — приложенные видео (трейлеры, тизеры, клипы).
type Videos struct {
	Results []Video `json:"results"`
}

// Video — видео на внешней площадке.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Площадка и тип видео, которые использует автозаполнение.
const (
	SiteYouTube      = "YouTube"
	VideoTypeTrailer = "Trailer"
)

// errorResponse — тело ошибки TMDB.
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
