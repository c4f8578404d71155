package model

import "time"

// ActionAddFilm — действие «добавление фильма» в журнале.
const ActionAddFilm = "ADD_FILM"

// AdminLog — запись журнала действий администратора (таблица admin_logs).
type AdminLog struct {
	ID      int64
	AdminID string
	Action  string
	// Details — произвольные детали, сериализуются в JSONB
	Details   map[string]any
	CreatedAt time.Time
}
