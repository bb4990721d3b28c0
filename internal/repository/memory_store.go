package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

// MemoryStore owns every record collection in process memory. A single
// RWMutex serializes mutations so each check-then-write sequence runs as one
// critical section; reads copy rows out under the read lock and never
// observe a partially applied write.
type MemoryStore struct {
	mu sync.RWMutex

	teachers    []models.Teacher
	admins      []models.Admin
	courses     []models.Course
	programs    []models.Program
	schoolYears []models.SchoolYear
	loads       []models.TeachingLoad
	students    []models.Student
	grades      []models.Grade

	audit       []models.AuditLogEntry
	auditCap    int
	nextAuditID int
}

// NewMemoryStore returns an empty store. auditCapacity bounds the retained
// audit entries; ids keep increasing past eviction.
func NewMemoryStore(auditCapacity int) *MemoryStore {
	if auditCapacity <= 0 {
		auditCapacity = 1000
	}
	return &MemoryStore{auditCap: auditCapacity}
}

// TeacherByAPIKey finds a teacher by exact key. Activity and expiry checks
// belong to the auth service so both store backends share them.
func (s *MemoryStore) TeacherByAPIKey(ctx context.Context, key string) (*models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.teachers {
		if s.teachers[i].APIKey == key {
			cp := s.teachers[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// AdminByAPIKey finds an admin by exact key.
func (s *MemoryStore) AdminByAPIKey(ctx context.Context, key string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.admins {
		if s.admins[i].APIKey == key {
			cp := s.admins[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// TeacherByID looks up a teacher record.
func (s *MemoryStore) TeacherByID(ctx context.Context, id int) (*models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.teachers {
		if s.teachers[i].ID == id {
			cp := s.teachers[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// CourseByCode resolves a course by its code (teaching loads reference
// courses by code, not numeric id).
func (s *MemoryStore) CourseByCode(ctx context.Context, code string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.courses {
		if s.courses[i].Code == code {
			cp := s.courses[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ProgramByCode resolves a program by code.
func (s *MemoryStore) ProgramByCode(ctx context.Context, code string) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.programs {
		if s.programs[i].Code == code {
			cp := s.programs[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// SchoolYearByID resolves a school year.
func (s *MemoryStore) SchoolYearByID(ctx context.Context, id int) (*models.SchoolYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.schoolYears {
		if s.schoolYears[i].ID == id {
			cp := s.schoolYears[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ListStudents returns a snapshot of the student collection.
func (s *MemoryStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

// ListLoads returns a snapshot of all teaching loads in insertion order.
func (s *MemoryStore) ListLoads(ctx context.Context) ([]models.TeachingLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TeachingLoad, len(s.loads))
	copy(out, s.loads)
	return out, nil
}

// ListActiveLoadsByTeacher returns the active loads owned by a teacher.
func (s *MemoryStore) ListActiveLoadsByTeacher(ctx context.Context, teacherID int) ([]models.TeachingLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TeachingLoad
	for i := range s.loads {
		if s.loads[i].TeacherID == teacherID && s.loads[i].IsActive {
			out = append(out, s.loads[i])
		}
	}
	return out, nil
}

// LoadByID looks up a teaching load.
func (s *MemoryStore) LoadByID(ctx context.Context, id int) (*models.TeachingLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.loads {
		if s.loads[i].ID == id {
			cp := s.loads[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// CreateLoad appends a new load after checking the active-duplicate
// invariant under the same lock hold. The id is count+1, per contract.
func (s *MemoryStore) CreateLoad(ctx context.Context, load *models.TeachingLoad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.loads {
		existing := &s.loads[i]
		if existing.IsActive && existing.TeacherID == load.TeacherID && existing.Scope().Matches(load.Scope()) {
			return appErrors.ErrDuplicateLoad
		}
	}
	now := time.Now().UTC()
	load.ID = len(s.loads) + 1
	load.IsActive = true
	load.CreatedAt = now
	load.UpdatedAt = now
	s.loads = append(s.loads, *load)
	return nil
}

// MutateLoad runs fn against the stored row under the write lock and commits
// the mutated copy only when fn succeeds. The read and the write are one
// critical section; a stale copy taken before the lock can never be written
// back over a concurrent mutation.
func (s *MemoryStore) MutateLoad(ctx context.Context, id int, fn func(*models.TeachingLoad) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.loads {
		if s.loads[i].ID == id {
			cp := s.loads[i]
			if err := fn(&cp); err != nil {
				return err
			}
			cp.ID = id
			s.loads[i] = cp
			return nil
		}
	}
	return sql.ErrNoRows
}

// ListGrades returns a snapshot of all grades in insertion order.
func (s *MemoryStore) ListGrades(ctx context.Context) ([]models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Grade, len(s.grades))
	copy(out, s.grades)
	return out, nil
}

// GradeByID looks up a grade.
func (s *MemoryStore) GradeByID(ctx context.Context, id int) (*models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.grades {
		if s.grades[i].ID == id {
			cp := s.grades[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// MutateGrade runs fn against the stored grade under the write lock,
// handing it the teacher's active loads snapshotted in the same critical
// section. The authorization check and the write cannot interleave with a
// load deactivation.
func (s *MemoryStore) MutateGrade(ctx context.Context, id int, teacherID int, fn func(*models.Grade, []models.TeachingLoad) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.grades {
		if s.grades[i].ID == id {
			var loads []models.TeachingLoad
			for j := range s.loads {
				if s.loads[j].TeacherID == teacherID && s.loads[j].IsActive {
					loads = append(loads, s.loads[j])
				}
			}
			cp := s.grades[i]
			if err := fn(&cp, loads); err != nil {
				return err
			}
			cp.ID = id
			s.grades[i] = cp
			return nil
		}
	}
	return sql.ErrNoRows
}

// AppendAuditLog assigns the next monotonic id and appends the entry,
// evicting the oldest retained entry once capacity is reached.
func (s *MemoryStore) AppendAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuditID++
	entry.ID = s.nextAuditID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.audit = append(s.audit, *entry)
	if len(s.audit) > s.auditCap {
		s.audit = s.audit[len(s.audit)-s.auditCap:]
	}
	return nil
}

// ListAuditLogs returns up to limit of the most recent entries, oldest
// first. limit <= 0 returns everything retained.
func (s *MemoryStore) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.audit
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]models.AuditLogEntry, len(entries))
	copy(out, entries)
	return out, nil
}
