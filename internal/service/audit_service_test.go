package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/repository"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

func TestAuditRecordAppendsEntry(t *testing.T) {
	store := repository.NewMemoryStore(10)
	svc := NewAuditService(store, nil)

	svc.Record(context.Background(), teacherPrincipal(1), models.AuditActionLogin, nil)
	svc.Record(context.Background(), adminPrincipal(), models.AuditActionViewGrades, map[string]interface{}{"filters": "none"})

	entries, err := store.ListAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, models.ActorTeacher, entries[0].ActorKind)
	assert.Equal(t, models.AuditActionLogin, entries[0].Action)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, 2, entries[1].ID)
}

func TestAuditRecordSwallowsStoreErrors(t *testing.T) {
	svc := NewAuditService(&failingAuditStore{}, nil)

	// Must not panic or propagate; the request that triggered it proceeds.
	svc.Record(context.Background(), teacherPrincipal(1), models.AuditActionLogin, nil)
}

func TestAuditListAdminOnly(t *testing.T) {
	store := repository.NewMemoryStore(10)
	svc := NewAuditService(store, nil)
	svc.Record(context.Background(), adminPrincipal(), models.AuditActionLogin, nil)

	_, err := svc.List(context.Background(), teacherPrincipal(1), 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAdminOnly, err)

	entries, err := svc.List(context.Background(), adminPrincipal(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAuditListHonorsLimit(t *testing.T) {
	store := repository.NewMemoryStore(10)
	svc := NewAuditService(store, nil)
	for i := 0; i < 5; i++ {
		svc.Record(context.Background(), adminPrincipal(), models.AuditActionViewLoads, nil)
	}

	entries, err := svc.List(context.Background(), adminPrincipal(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 4, entries[0].ID)
	assert.Equal(t, 5, entries[1].ID)
}

type failingAuditStore struct{}

func (f *failingAuditStore) AppendAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	return errors.New("append failed")
}

func (f *failingAuditStore) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	return nil, errors.New("list failed")
}
