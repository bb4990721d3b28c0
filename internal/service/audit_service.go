package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

type auditStore interface {
	AppendAuditLog(ctx context.Context, entry *models.AuditLogEntry) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

// AuditService records every successfully authorized action. Recording
// never fails the request: append errors are logged and swallowed.
type AuditService struct {
	store  auditStore
	logger *zap.Logger
}

// NewAuditService creates a service instance.
func NewAuditService(store auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: store, logger: logger}
}

// Record appends one entry for the principal's action.
func (s *AuditService) Record(ctx context.Context, principal models.Principal, action string, details map[string]interface{}) {
	if s == nil || s.store == nil {
		return
	}
	entry := &models.AuditLogEntry{
		ActorKind: principal.Kind,
		ActorID:   principal.ID,
		Action:    action,
		Details:   details,
	}
	if err := s.store.AppendAuditLog(ctx, entry); err != nil {
		s.logger.Warn("audit append failed",
			zap.String("action", action),
			zap.Int("actor_id", principal.ID),
			zap.Error(err))
		return
	}
	s.logger.Info("audit",
		zap.String("action", action),
		zap.String("actor_kind", string(principal.Kind)),
		zap.Int("actor_id", principal.ID))
}

// List returns the most recent entries in insertion order. Admin only.
func (s *AuditService) List(ctx context.Context, principal models.Principal, limit int) ([]models.AuditLogEntry, error) {
	switch principal.Kind {
	case models.ActorAdmin:
	case models.ActorTeacher:
		return nil, appErrors.ErrAdminOnly
	default:
		return nil, appErrors.ErrAdminOnly
	}
	entries, err := s.store.ListAuditLogs(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return entries, nil
}
