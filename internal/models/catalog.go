package models

import "time"

// Course is a subject offering referenced by teaching loads via its code.
type Course struct {
	ID   int    `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Program is an academic program (nil on loads outside program tracks).
type Program struct {
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// SchoolYear is one academic year window.
type SchoolYear struct {
	ID        int    `db:"id" json:"id"`
	Year      string `db:"year" json:"year"`
	StartDate string `db:"start_date" json:"start_date"`
	EndDate   string `db:"end_date" json:"end_date"`
}

// Student is a learner whose name is joined onto grade views.
type Student struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	StudentNo   string    `db:"student_no" json:"student_no"`
	ProgramCode *string   `db:"program_code" json:"program_code"`
	YearLevel   int       `db:"year_level" json:"year_level"`
	Section     string    `db:"section" json:"section"`
	SchoolLevel string    `db:"school_level" json:"school_level"`
	YearCode    string    `db:"year_code" json:"year_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
