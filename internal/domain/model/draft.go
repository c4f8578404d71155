package model

import "io"

// Upload — локальный файл, ожидающий загрузки в объектное хранилище.
type Upload struct {
	// Filename — исходное имя файла (используется в ключе объекта)
	Filename string
	// ContentType — MIME-тип из запроса (может быть пустым)
	ContentType string
	// Size — размер в байтах
	Size int64
	// Body — содержимое; ReadSeeker нужен для определения MIME-типа
	Body io.ReadSeeker
}

// MediaRef — ссылка на медиа-ресурс черновика: либо удалённый URL
// (в т.ч. превью из TMDB), либо локальный файл. Файл имеет приоритет:
// при его наличии итоговый URL получается загрузкой в хранилище.
type MediaRef struct {
	URL    string
	Upload *Upload
}

// HasUpload сообщает, приложен ли локальный файл.
func (m MediaRef) HasUpload() bool {
	return m.Upload != nil && m.Upload.Body != nil
}

// DraftCastMember — участник состава в редактируемом черновике.
type DraftCastMember struct {
	Name  string
	Role  string
	Photo MediaRef
}

// FilmDraft — редактируемое состояние формы добавления фильма.
// Заполняется пользователем и автозаполнением из TMDB; сохраняется
// конвейером публикации и превращается в Film.
type FilmDraft struct {
	Title         string
	OriginalTitle string
	Description   string
	Year          int
	Duration      int
	Director      string
	// GenreIDs — выбранные жанры (множество, непустое при публикации)
	GenreIDs   []string
	IsVIP      bool
	Published  bool
	TrailerURL string
	Video      MediaRef
	Poster     MediaRef
	Backdrop   MediaRef
	Cast       []DraftCastMember
	Categories []CategoryTag
}
