// audit.go — журнал действий администраторов (best effort).
package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/model"
	"github.com/bigkaa/kinoteka/catalog-module/internal/repository"
)

// AuditService пишет действия администраторов в admin_logs.
// Ошибки записи не прерывают основную операцию.
type AuditService struct {
	repo   repository.AdminLogRepository
	logger *slog.Logger
}

// NewAuditService создаёт сервис журнала.
func NewAuditService(repo repository.AdminLogRepository, logger *slog.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger.With(slog.String("component", "audit")),
	}
}

// FilmAdded фиксирует добавление фильма. Без adminID запись пропускается.
func (s *AuditService) FilmAdded(ctx context.Context, adminID string, film *model.Film) {
	if adminID == "" {
		s.logger.Debug("Запись журнала пропущена: администратор не определён",
			slog.String("film_id", film.ID),
		)
		return
	}

	entry := &model.AdminLog{
		AdminID: adminID,
		Action:  model.ActionAddFilm,
		Details: map[string]any{
			"film_id":    film.ID,
			"film_title": film.Title,
		},
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Warn("Не удалось записать действие в журнал",
			slog.String("admin_id", adminID),
			slog.String("action", entry.Action),
			slog.String("film_id", film.ID),
			slog.String("error", err.Error()),
		)
	}
}
