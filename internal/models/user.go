package models

import (
	"math"
	"time"
)

// UserRole represents the roles recognised by the access rules.
type UserRole string

const (
	RoleEnrichment UserRole = "Enrichment"
	RoleCompany    UserRole = "Company"
)

// User represents an advisor or company account stored in the users table.
type User struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	CompanyName    string    `db:"company_name" json:"companyName"`
	CompanyAddress string    `db:"company_address" json:"companyAddress"`
	ImageURL       string    `db:"image_url" json:"imageUrl"`
	Role           UserRole  `db:"role" json:"role"`
	PasswordHash   string    `db:"password" json:"-"`
	PhoneNumber    string    `db:"phone_number" json:"phoneNumber"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives the page count from the total and the page size.
func NewPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Pagination{Page: page, Limit: limit, TotalCount: total, TotalPages: pages}
}
