package models

import "time"

// TeachingLoad assigns one teacher to one course-section-context for a
// school year and semester. Loads are soft-deleted via IsActive.
type TeachingLoad struct {
	ID           int       `db:"id" json:"id"`
	TeacherID    int       `db:"teacher_id" json:"teacher_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	Section      string    `db:"section" json:"section"`
	YearLevel    int       `db:"year_level" json:"year_level"`
	ProgramCode  *string   `db:"program_code" json:"program_code"`
	SchoolLevel  string    `db:"school_level" json:"school_level"`
	SchoolYearID int       `db:"school_year_id" json:"school_year_id"`
	Semester     int       `db:"semester" json:"semester"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Scope returns the teaching-context tuple of the load.
func (l TeachingLoad) Scope() Scope {
	return Scope{
		CourseID:     l.CourseID,
		Section:      l.Section,
		YearLevel:    l.YearLevel,
		ProgramCode:  l.ProgramCode,
		SchoolLevel:  l.SchoolLevel,
		SchoolYearID: l.SchoolYearID,
		Semester:     l.Semester,
	}
}

// LoadFilter carries the optional query parameters of the teaching-load list.
// Values arrive as raw strings; the service decides which fields compare
// coercively (numeric) and which compare strictly.
type LoadFilter struct {
	SchoolYearID string
	SchoolLevel  string
	ProgramCode  string
	YearLevel    string
	Section      string
	TeacherID    string
	CourseID     string
}

// Empty reports whether no filter field is set.
func (f LoadFilter) Empty() bool {
	return f == LoadFilter{}
}

// Pagination slices list results; Page is 1-indexed.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies the contract defaults (page 1, limit 10).
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}
