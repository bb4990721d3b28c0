package models

import "time"

// Grade is one student's grade in one course context. TeacherID records the
// last principal who wrote the value, not the original assigner.
type Grade struct {
	ID           int       `db:"id" json:"id"`
	StudentID    int       `db:"student_id" json:"student_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	Section      string    `db:"section" json:"section"`
	YearLevel    int       `db:"year_level" json:"year_level"`
	ProgramCode  *string   `db:"program_code" json:"program_code"`
	SchoolLevel  string    `db:"school_level" json:"school_level"`
	YearCode     string    `db:"year_code" json:"year_code"`
	SchoolYearID int       `db:"school_year_id" json:"school_year_id"`
	Semester     int       `db:"semester" json:"semester"`
	GradeValue   float64   `db:"grade_value" json:"grade_value"`
	TeacherID    int       `db:"teacher_id" json:"teacher_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Scope returns the teaching-context tuple of the grade.
func (g Grade) Scope() Scope {
	return Scope{
		CourseID:     g.CourseID,
		Section:      g.Section,
		YearLevel:    g.YearLevel,
		ProgramCode:  g.ProgramCode,
		SchoolLevel:  g.SchoolLevel,
		SchoolYearID: g.SchoolYearID,
		Semester:     g.Semester,
	}
}

// GradeView is the list row returned by the grades endpoint: internal
// bookkeeping stripped, student name joined in.
type GradeView struct {
	StudentID    int     `json:"student_id"`
	CourseID     string  `json:"course_id"`
	Grade        float64 `json:"grade"`
	SchoolYearID int     `json:"school_year_id"`
	Semester     int     `json:"semester"`
	ProgramCode  *string `json:"program_code"`
	SchoolLevel  string  `json:"school_level"`
	YearLevel    int     `json:"year_level"`
	Section      string  `json:"section"`
	StudentName  string  `json:"student_name"`
}

// GradeMetadata summarises a filtered grade set.
type GradeMetadata struct {
	TotalStudents int `json:"total_students"`
	TotalCourses  int `json:"total_courses"`
}

// GradeList is the grades endpoint response body.
type GradeList struct {
	Grades   []GradeView   `json:"grades"`
	Metadata GradeMetadata `json:"metadata"`
}

// GradeFilter carries the optional query parameters of the grade list.
// Raw strings; coercion policy is decided by the service per field.
type GradeFilter struct {
	SchoolYearID string
	Semester     string
	ProgramCode  string
	YearLevel    string
	Section      string
	CourseID     string
	TeacherID    string
}
