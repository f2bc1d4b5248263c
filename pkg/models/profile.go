package models

// Profile represents the logged-in user as returned by the profile endpoint.
type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"created_at"`
}

// StoredProfile is the wrapped form the profile is persisted in.
type StoredProfile struct {
	Success bool     `json:"success"`
	Data    *Profile `json:"data"`
}

// LoginRequest represents the data needed for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
