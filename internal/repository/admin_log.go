package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
)

// AdminLogRepository — журнал действий администраторов (только добавление).
type AdminLogRepository interface {
	Insert(ctx context.Context, entry *model.AdminLog) error
}

type adminLogRepo struct {
	db DBTX
}

// NewAdminLogRepository создаёт репозиторий журнала.
func NewAdminLogRepository(db DBTX) AdminLogRepository {
	return &adminLogRepo{db: db}
}

func (r *adminLogRepo) Insert(ctx context.Context, entry *model.AdminLog) error {
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("ошибка сериализации деталей журнала: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO admin_logs (admin_id, action, details) VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		entry.AdminID, entry.Action, raw,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал действий: %w", err)
	}
	return nil
}
