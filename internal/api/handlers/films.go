package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	apierrors "github.com/bigkaa/kinoteka/catalog-module/internal/api/errors"
	"github.com/bigkaa/kinoteka/catalog-module/internal/api/generated"
	"github.com/bigkaa/kinoteka/catalog-module/internal/api/middleware"
	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/service"
)

// Части multipart-запроса публикации.
const (
	partFilm      = "film"
	partPoster    = "poster"
	partBackdrop  = "backdrop"
	partVideo     = "video"
	partCastPhoto = "cast_photo_%d"

	// multipartMemory — сколько держать в памяти, остальное во временных файлах.
	multipartMemory = 32 << 20

	filmsListLocation = "/admin/films"
)

// filmDraftRequest — JSON-часть "film" запроса публикации.
// URL-поля — превью (например, из TMDB); приложенный файл их перекрывает.
type filmDraftRequest struct {
	Title         string              `json:"title"`
	OriginalTitle string              `json:"original_title"`
	Description   string              `json:"description"`
	Year          int                 `json:"year"`
	Duration      int                 `json:"duration"`
	Director      string              `json:"director"`
	GenreIDs      []string            `json:"genre_ids"`
	IsVIP         bool                `json:"isvip"`
	Published     bool                `json:"published"`
	TrailerURL    string              `json:"trailer_url"`
	VideoURL      string              `json:"video_url"`
	PosterURL     string              `json:"poster_url"`
	BackdropURL   string              `json:"backdrop_url"`
	Cast          []castMemberRequest `json:"cast"`
	Categories    []model.CategoryTag `json:"homepage_categories"`
}

type castMemberRequest struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Photo string `json:"photo"`
}

type submitFilmResponse struct {
	Film    *model.Film `json:"film"`
	Message string      `json:"message"`
}

// SubmitFilm — POST /api/v1/films (multipart/form-data).
// Часть film — JSON черновика; файлы poster, backdrop, video, cast_photo_<i>
// (i — индекс в массиве cast) необязательны.
func (h *APIHandler) SubmitFilm(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.PayloadTooLarge(w, fmt.Sprintf("Размер запроса превышает %d байт", tooLarge.Limit))
			return
		}
		apierrors.ValidationError(w, "Невалидный multipart-запрос: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	raw, err := filmPart(r.MultipartForm)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	var req filmDraftRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		apierrors.ValidationError(w, "Невалидный JSON в части film: "+err.Error())
		return
	}

	draft, closeFiles, err := buildDraft(&req, r.MultipartForm)
	defer closeFiles()
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	film, err := h.submit.Submit(r.Context(), middleware.SubjectFromContext(r.Context()), draft)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	w.Header().Set("Location", filmsListLocation)
	writeJSON(w, http.StatusCreated, submitFilmResponse{
		Film:    film,
		Message: service.FilmAddedMessage(film.Title),
	})
}

// filmPart читает JSON черновика: обычное поле формы или файловая часть
// (FormData с Blob application/json).
func filmPart(form *multipart.Form) ([]byte, error) {
	if v := form.Value[partFilm]; len(v) > 0 && v[0] != "" {
		return []byte(v[0]), nil
	}
	if fh := form.File[partFilm]; len(fh) > 0 {
		f, err := fh[0].Open()
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать часть film: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return nil, errors.New("отсутствует часть film")
}

func (h *APIHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		apierrors.ValidationError(w, validation.Message)
	case errors.Is(err, service.ErrDuplicate):
		apierrors.Duplicate(w, service.MsgDuplicate)
	case errors.Is(err, service.ErrUpload):
		apierrors.UploadError(w, err.Error())
	default:
		h.logger.Error("Ошибка публикации фильма", slog.String("error", err.Error()))
		apierrors.InternalError(w, service.MsgSubmitFailed)
	}
}

// buildDraft собирает черновик из JSON и приложенных файлов.
// Возвращаемая функция закрывает открытые файлы; её нужно вызвать и при ошибке.
func buildDraft(req *filmDraftRequest, form *multipart.Form) (*model.FilmDraft, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	attach := func(part string) (*model.Upload, error) {
		headers := form.File[part]
		if len(headers) == 0 {
			return nil, nil
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("не удалось открыть файл %s: %w", part, err)
		}
		opened = append(opened, f)
		return &model.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}, nil
	}

	d := &model.FilmDraft{
		Title:         req.Title,
		OriginalTitle: req.OriginalTitle,
		Description:   req.Description,
		Year:          req.Year,
		Duration:      req.Duration,
		Director:      req.Director,
		GenreIDs:      req.GenreIDs,
		IsVIP:         req.IsVIP,
		Published:     req.Published,
		TrailerURL:    req.TrailerURL,
		Video:         model.MediaRef{URL: req.VideoURL},
		Poster:        model.MediaRef{URL: req.PosterURL},
		Backdrop:      model.MediaRef{URL: req.BackdropURL},
		Categories:    model.NormalizeCategories(req.Categories),
	}

	var err error
	if d.Poster.Upload, err = attach(partPoster); err != nil {
		return nil, closeAll, err
	}
	if d.Backdrop.Upload, err = attach(partBackdrop); err != nil {
		return nil, closeAll, err
	}
	if d.Video.Upload, err = attach(partVideo); err != nil {
		return nil, closeAll, err
	}

	d.Cast = make([]model.DraftCastMember, 0, len(req.Cast))
	for i, c := range req.Cast {
		member := model.DraftCastMember{
			Name:  c.Name,
			Role:  c.Role,
			Photo: model.MediaRef{URL: c.Photo},
		}
		if member.Photo.Upload, err = attach(fmt.Sprintf(partCastPhoto, i)); err != nil {
			return nil, closeAll, err
		}
		d.Cast = append(d.Cast, member)
	}

	return d, closeAll, nil
}

// WatchFilm — GET /api/v1/films/{id}/watch.
func (h *APIHandler) WatchFilm(w http.ResponseWriter, r *http.Request, id generated.FilmId) { //nolint:revive // имя из сгенерированного интерфейса oapi-codegen
	view, err := h.films.GetForWatch(r.Context(), id.String())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, service.MsgFilmNotFound)
			return
		}
		h.logger.Error("Ошибка загрузки фильма",
			slog.String("film_id", id.String()),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, service.MsgFilmLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
