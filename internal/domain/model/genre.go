package model

// Genre — элемент справочника жанров (таблица genres).
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
