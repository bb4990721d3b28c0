package models

import "time"

// Audit actions recorded by the recorder.
const (
	AuditActionLogin          = "login"
	AuditActionViewLoads      = "view_teaching_loads"
	AuditActionCreateLoad     = "create_teaching_load"
	AuditActionUpdateLoad     = "update_teaching_load"
	AuditActionDeactivateLoad = "deactivate_teaching_load"
	AuditActionViewGrades     = "view_grades"
	AuditActionUpdateGrade    = "update_grade"
	AuditActionExportGrades   = "export_grades"
)

// AuditLogEntry is one append-only audit record. IDs increase monotonically
// in insertion order and survive ring-buffer eviction.
type AuditLogEntry struct {
	ID        int                    `db:"id" json:"id"`
	ActorKind ActorKind              `db:"actor_kind" json:"actor_kind"`
	ActorID   int                    `db:"actor_id" json:"actor_id"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"-" json:"details,omitempty"`
	Timestamp time.Time              `db:"timestamp" json:"timestamp"`
}
