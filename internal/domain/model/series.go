package model

// Series — сериал в публичном каталоге (таблица series).
type Series struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	IsVIP       bool     `json:"isVIP"`
	Poster      string   `json:"poster,omitempty"`
	Year        *int     `json:"year,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Description string   `json:"description,omitempty"`
}
