package models

import "time"

// Student status values accepted by the list filter.
const (
	StudentStatusActive    = "active"
	StudentStatusNotActive = "Not Active"
)

// Student represents an intern tracked by the enrichment office.
type Student struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	NIM               string    `db:"nim" json:"nim"`
	Email             string    `db:"email" json:"email"`
	Major             string    `db:"major" json:"major"`
	Semester          string    `db:"semester" json:"semester"`
	Period            string    `db:"period" json:"period"`
	TempatMagang      string    `db:"tempat_magang" json:"tempatMagang"`
	Phone             string    `db:"phone" json:"phone"`
	ImageURL          string    `db:"image_url" json:"imageUrl"`
	Status            string    `db:"status" json:"status"`
	FacultySupervisor string    `db:"faculty_supervisor" json:"facultySupervisor"`
	SiteSupervisor    string    `db:"site_supervisor" json:"siteSupervisor"`
	Notes             string    `db:"notes" json:"notes"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentFilter encapsulates the normalised list filters.
type StudentFilter struct {
	Name   string
	Period string
	Status string
	Page   int
	Limit  int
}
