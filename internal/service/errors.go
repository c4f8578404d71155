// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"

	"github.com/bigkaa/kinoteka/catalog-module/internal/storage"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrDuplicate — фильм с таким названием и годом уже есть в каталоге.
	ErrDuplicate = errors.New("фильм с таким названием и годом уже существует")
	// ErrUpload — ошибка загрузки файла в хранилище.
	ErrUpload = errors.New("ошибка загрузки файла")
	// ErrMetadataUnavailable — TMDB недоступен или вернул ошибку.
	ErrMetadataUnavailable = errors.New("сервис метаданных недоступен")
)

// Сообщения для пользователя.
const (
	MsgTitleRequired  = "Le titre du film est requis."
	MsgGenreRequired  = "Veuillez sélectionner au moins un genre."
	MsgDuplicate      = "Un film avec ce titre et cette année existe déjà."
	MsgSubmitFailed   = "Impossible d'ajouter le film."
	MsgFilmNotFound   = "Film non trouvé."
	MsgFilmLoadFailed = "Impossible de charger le film."
	MsgSeriesFailed   = "Erreur lors du chargement des séries. Veuillez réessayer."
)

// FilmAddedMessage — сообщение об успешном добавлении фильма.
func FilmAddedMessage(title string) string {
	return `Le film "` + title + `" a été ajouté avec succès.`
}

// ValidationError — ошибка валидации с сообщением для пользователя.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is позволяет проверять errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UploadError — ошибка загрузки объекта; текст ошибки хранилища
// передаётся пользователю без изменений.
type UploadError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	var se *storage.Error
	if errors.As(e.Err, &se) {
		return se.Message
	}
	return e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }

// Is позволяет проверять errors.Is(err, ErrUpload).
func (e *UploadError) Is(target error) bool { return target == ErrUpload }
