package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateAdminRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=150"`
	Nom      string  `json:"nom"      validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role"     validate:"required,oneof=admin manager"`
}

type UpdateAdminRequest struct {
	Nom      string  `json:"nom"      validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Role     string  `json:"role"     validate:"omitempty,oneof=admin manager"`
	Password string  `json:"password" validate:"omitempty,min=8,max=72"`
	Active   *bool   `json:"active"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AdminResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Nom      string  `json:"nom"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
}

type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"` // seconds
	User         AdminResponse `json:"user"`
}
