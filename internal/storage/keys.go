package storage

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"
)

// Префиксы ключей объектов внутри бакетов.
const (
	PrefixActors    = "actors"
	PrefixPosters   = "posters"
	PrefixBackdrops = "backdrops"
	PrefixVideos    = "videos"
)

// ActorPhotoKey — ключ фото актёра: actors/<unixMillis>_<index>_<filename>.
func ActorPhotoKey(now time.Time, index int, filename string) string {
	return fmt.Sprintf("%s/%d_%d_%s", PrefixActors, now.UnixMilli(), index, SanitizeFilename(filename))
}

// MediaKey — ключ медиафайла фильма: <prefix>/<unixMillis>-<filename>.
func MediaKey(prefix string, now time.Time, filename string) string {
	return fmt.Sprintf("%s/%d-%s", prefix, now.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename приводит имя файла к безопасному для ключа виду:
// транслитерация в ASCII, допустимы буквы, цифры, '.', '-' и '_',
// остальное заменяется на '_'.
func SanitizeFilename(name string) string {
	name = unidecode.Unidecode(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "_.")
	if out == "" {
		return "file"
	}
	return out
}

// escapeKey экранирует сегменты ключа, сохраняя разделители '/'.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
