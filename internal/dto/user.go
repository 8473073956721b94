package dto

// UpdateUserRequest updates profile fields. Empty fields keep their value; a
// non-empty password replaces the stored hash.
type UpdateUserRequest struct {
	Name           string `json:"name"`
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	ImageURL       string `json:"imageUrl"`
	PhoneNumber    string `json:"phoneNumber"`
	Password       string `json:"password" validate:"omitempty,min=6"`
}

// UserNamesRequest asks for the display names of several accounts.
type UserNamesRequest struct {
	Emails []string `json:"emails" validate:"required,min=1"`
}
