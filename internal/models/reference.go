package models

// Company is a placement organisation.
type Company struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
}

// Major is an academic study programme.
type Major struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Period is an internship intake.
type Period struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
