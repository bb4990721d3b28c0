package repository

import (
	"time"

	"github.com/noah-isme/academic-records-api/internal/models"
)

func strPtr(s string) *string { return &s }

// SeedDataset is the built-in demo dataset shared by the seeded memory
// store and the Postgres seeding script.
type SeedDataset struct {
	Teachers    []models.Teacher
	Admins      []models.Admin
	Courses     []models.Course
	Programs    []models.Program
	SchoolYears []models.SchoolYear
	Loads       []models.TeachingLoad
	Students    []models.Student
	Grades      []models.Grade
}

// Seed returns the canonical dataset.
func Seed() SeedDataset {
	now := time.Now().UTC()
	keyExpiry := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	cs := strPtr("CS")
	ba := strPtr("BA")

	return SeedDataset{
		Teachers: []models.Teacher{
			{ID: 1, Name: "John Doe", APIKey: "hashed_key_1", Active: true, ExpirationDate: keyExpiry, CreatedAt: now, UpdatedAt: now},
			{ID: 2, Name: "Jane Smith", APIKey: "hashed_key_2", Active: true, ExpirationDate: keyExpiry, CreatedAt: now, UpdatedAt: now},
			{ID: 3, Name: "Bob Johnson", APIKey: "hashed_key_3", Active: true, ExpirationDate: keyExpiry, CreatedAt: now, UpdatedAt: now},
		},
		Admins: []models.Admin{
			{ID: 1, Name: "Admin User", APIKey: "admin_key_1", Active: true, ExpirationDate: keyExpiry, CreatedAt: now, UpdatedAt: now},
		},
		Courses: []models.Course{
			{ID: 1, Code: "MATH101", Name: "Mathematics 101"},
			{ID: 2, Code: "CS101", Name: "Computer Science 101"},
			{ID: 3, Code: "ENG101", Name: "English 101"},
			{ID: 4, Code: "HIST101", Name: "History 101"},
			{ID: 5, Code: "SCIENCE", Name: "Science"},
			{ID: 6, Code: "MATH", Name: "Mathematics"},
		},
		Programs: []models.Program{
			{Code: "CS", Name: "Computer Science"},
			{Code: "BA", Name: "Business Administration"},
		},
		SchoolYears: []models.SchoolYear{
			{ID: 1, Year: "2023-2024", StartDate: "2023-08-01", EndDate: "2024-05-31"},
			{ID: 2, Year: "2024-2025", StartDate: "2024-08-01", EndDate: "2025-05-31"},
		},
		Loads: []models.TeachingLoad{
			{ID: 1, TeacherID: 1, CourseID: "MATH101", Section: "A", YearLevel: 1, ProgramCode: cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1, Role: "subject_teacher", IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: 2, TeacherID: 1, CourseID: "CS101", Section: "B", YearLevel: 1, ProgramCode: cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1, Role: "subject_teacher", IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: 3, TeacherID: 2, CourseID: "ENG101", Section: "A", YearLevel: 2, ProgramCode: ba, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 2, Role: "subject_teacher", IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: 4, TeacherID: 2, CourseID: "HIST101", Section: "A", YearLevel: 2, ProgramCode: ba, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 2, Role: "adviser", IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: 5, TeacherID: 3, CourseID: "SCIENCE", Section: "1", YearLevel: 7, ProgramCode: nil, SchoolLevel: "K-12", SchoolYearID: 1, Semester: 0, Role: "subject_teacher", IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: 6, TeacherID: 3, CourseID: "MATH", Section: "1", YearLevel: 7, ProgramCode: nil, SchoolLevel: "K-12", SchoolYearID: 1, Semester: 0, Role: "adviser", IsActive: true, CreatedAt: now, UpdatedAt: now},
		},
		Students: []models.Student{
			{ID: 1, Name: "Alice Smith", StudentNo: "S001", ProgramCode: cs, YearLevel: 1, Section: "A", SchoolLevel: "COLLEGE", YearCode: "COL-1", CreatedAt: now},
			{ID: 2, Name: "Bob Johnson", StudentNo: "S002", ProgramCode: cs, YearLevel: 1, Section: "B", SchoolLevel: "COLLEGE", YearCode: "COL-1", CreatedAt: now},
			{ID: 3, Name: "Charlie Brown", StudentNo: "S003", ProgramCode: ba, YearLevel: 2, Section: "A", SchoolLevel: "COLLEGE", YearCode: "COL-2", CreatedAt: now},
			{ID: 4, Name: "Diana Prince", StudentNo: "S004", ProgramCode: nil, YearLevel: 7, Section: "1", SchoolLevel: "K-12", YearCode: "K12-7", CreatedAt: now},
			{ID: 5, Name: "Eve Adams", StudentNo: "S005", ProgramCode: nil, YearLevel: 7, Section: "1", SchoolLevel: "K-12", YearCode: "K12-7", CreatedAt: now},
		},
		Grades: []models.Grade{
			{ID: 1, StudentID: 1, CourseID: "MATH101", Section: "A", YearLevel: 1, ProgramCode: cs, SchoolLevel: "COLLEGE", YearCode: "COL-1", SchoolYearID: 1, Semester: 1, GradeValue: 85, TeacherID: 1, CreatedAt: now, UpdatedAt: now},
			{ID: 2, StudentID: 2, CourseID: "CS101", Section: "B", YearLevel: 1, ProgramCode: cs, SchoolLevel: "COLLEGE", YearCode: "COL-1", SchoolYearID: 1, Semester: 1, GradeValue: 90, TeacherID: 1, CreatedAt: now, UpdatedAt: now},
			{ID: 3, StudentID: 3, CourseID: "ENG101", Section: "A", YearLevel: 2, ProgramCode: ba, SchoolLevel: "COLLEGE", YearCode: "COL-2", SchoolYearID: 1, Semester: 2, GradeValue: 88, TeacherID: 2, CreatedAt: now, UpdatedAt: now},
			{ID: 4, StudentID: 3, CourseID: "HIST101", Section: "A", YearLevel: 2, ProgramCode: ba, SchoolLevel: "COLLEGE", YearCode: "COL-2", SchoolYearID: 1, Semester: 2, GradeValue: 92, TeacherID: 2, CreatedAt: now, UpdatedAt: now},
			{ID: 5, StudentID: 4, CourseID: "SCIENCE", Section: "1", YearLevel: 7, ProgramCode: nil, SchoolLevel: "K-12", YearCode: "K12-7", SchoolYearID: 1, Semester: 0, GradeValue: 87, TeacherID: 3, CreatedAt: now, UpdatedAt: now},
			{ID: 6, StudentID: 5, CourseID: "MATH", Section: "1", YearLevel: 7, ProgramCode: nil, SchoolLevel: "K-12", YearCode: "K12-7", SchoolYearID: 1, Semester: 0, GradeValue: 95, TeacherID: 3, CreatedAt: now, UpdatedAt: now},
		},
	}
}

// NewSeededMemoryStore returns a memory store preloaded with the canonical
// dataset.
func NewSeededMemoryStore(auditCapacity int) *MemoryStore {
	s := NewMemoryStore(auditCapacity)
	data := Seed()
	s.teachers = data.Teachers
	s.admins = data.Admins
	s.courses = data.Courses
	s.programs = data.Programs
	s.schoolYears = data.SchoolYears
	s.loads = data.Loads
	s.students = data.Students
	s.grades = data.Grades
	return s
}
