// Package dto defines data transfer objects for the identity feature's
// HTTP transport layer. Structural validation lives here, in the binding
// tags: the usecases behind the handlers assume pre-validated input.
package dto

// SignupReq represents the request body for the /signup endpoint.
type SignupReq struct {
	FirstName   string  `json:"firstName" binding:"required,max=100"`
	LastName    string  `json:"lastName" binding:"required,max=100"`
	Email       string  `json:"email" binding:"required,email,max=255"`
	Username    *string `json:"username" binding:"omitempty,max=255"`
	Password    string  `json:"password" binding:"required,min=6,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" binding:"omitempty,max=10"`
	Bio         *string `json:"bio" binding:"omitempty"`
}
