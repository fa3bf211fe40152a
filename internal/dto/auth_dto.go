package dto

// TokenRequest accepts OAuth2 password-form or JSON credentials.
type TokenRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=128"`
	Password string `json:"password" form:"password" validate:"required,max=256"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserResponse describes the authenticated account.
type UserResponse struct {
	Username string   `json:"username"`
	Disabled bool     `json:"disabled"`
	Scopes   []string `json:"scopes"`
}
