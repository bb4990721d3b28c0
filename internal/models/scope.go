package models

// Scope is the seven-field teaching-context tuple shared by teaching loads
// and grades: course, section, year level, program, school level, school
// year and semester.
type Scope struct {
	CourseID     string
	Section      string
	YearLevel    int
	ProgramCode  *string
	SchoolLevel  string
	SchoolYearID int
	Semester     int
}

// Matches reports exact per-field equality with other. There are no
// wildcards; a nil program code only matches another nil program code.
func (s Scope) Matches(other Scope) bool {
	if s.CourseID != other.CourseID ||
		s.Section != other.Section ||
		s.YearLevel != other.YearLevel ||
		s.SchoolLevel != other.SchoolLevel ||
		s.SchoolYearID != other.SchoolYearID ||
		s.Semester != other.Semester {
		return false
	}
	return programEqual(s.ProgramCode, other.ProgramCode)
}

func programEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
