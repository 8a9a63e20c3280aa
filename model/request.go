// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin user"`
}

// CreateDestinationRequest mirrors the forum's destination validation rules.
type CreateDestinationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=50"`
	Content string `json:"content" validate:"required,min=5,max=500"`
}

// UpdateDestinationRequest only allows the content to change.
type UpdateDestinationRequest struct {
	Content string `json:"content" validate:"required,min=5,max=500"`
}
