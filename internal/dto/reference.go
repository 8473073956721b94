package dto

// NamedEntityRequest creates a lookup entry identified by name.
type NamedEntityRequest struct {
	Name string `json:"name" validate:"required"`
}
