package models

import "time"

// ActorKind discriminates the two principal types of the API.
type ActorKind string

const (
	ActorTeacher ActorKind = "teacher"
	ActorAdmin   ActorKind = "admin"
)

// Teacher is an instructor account authenticating with a static API key.
type Teacher struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	APIKey         string    `db:"api_key" json:"-"`
	Active         bool      `db:"active" json:"active"`
	ExpirationDate time.Time `db:"expiration_date" json:"expiration_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Admin is an administrator account authenticating with a static API key.
type Admin struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	APIKey         string    `db:"api_key" json:"-"`
	Active         bool      `db:"active" json:"active"`
	ExpirationDate time.Time `db:"expiration_date" json:"expiration_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Principal is the authenticated actor for the current request. It owns no
// persistent state; authorization sites switch exhaustively on Kind.
type Principal struct {
	Kind ActorKind
	ID   int
	Name string
}

// Profile is the login response payload: the matched account minus its key.
type Profile struct {
	Type           ActorKind `json:"type"`
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Active         bool      `json:"active"`
	ExpirationDate time.Time `json:"expiration_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TeacherProfile builds the redacted login view of a teacher.
func TeacherProfile(t *Teacher) Profile {
	return Profile{
		Type:           ActorTeacher,
		ID:             t.ID,
		Name:           t.Name,
		Active:         t.Active,
		ExpirationDate: t.ExpirationDate,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// AdminProfile builds the redacted login view of an admin.
func AdminProfile(a *Admin) Profile {
	return Profile{
		Type:           ActorAdmin,
		ID:             a.ID,
		Name:           a.Name,
		Active:         a.Active,
		ExpirationDate: a.ExpirationDate,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
