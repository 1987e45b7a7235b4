package dto

// PasswordResetReq represents the request body for /password-reset.
type PasswordResetReq struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmReq represents the request body for
// /password-reset/confirm.
type PasswordResetConfirmReq struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// VerifyEmailReq represents the request body for /verify-email.
type VerifyEmailReq struct {
	Token string `json:"token" binding:"required"`
}
