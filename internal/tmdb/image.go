package tmdb

import "strings"

// ImageBaseURL — базовый адрес CDN изображений TMDB.
const ImageBaseURL = "https://image.tmdb.org/t/p/"

// ImageSize — префикс размера в URL изображения.
type ImageSize string

const (
	SizeProfile      ImageSize = "w185" // фото актёра
	SizeDetailPoster ImageSize = "w300" // постер на странице просмотра
	SizePoster       ImageSize = "w500"
	SizeBackdrop     ImageSize = "w780"
	SizeOriginal     ImageSize = "original"
)

// ImageURL собирает URL изображения из пути TMDB ("/abc.jpg").
// Пустой путь даёт пустую строку; абсолютный http(s) URL возвращается как есть.
func ImageURL(path string, size ImageSize) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if IsAbsoluteURL(path) {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ImageBaseURL + string(size) + path
}

// IsAbsoluteURL — начинается ли строка с http:// или https://.
func IsAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// YouTubeWatchURL — канонический адрес просмотра ролика YouTube.
func YouTubeWatchURL(key string) string {
	return "https://www.youtube.com/watch?v=" + key
}
