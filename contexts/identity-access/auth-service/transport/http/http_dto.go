package httptransport

type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

type Principal struct {
	Username  string
	ExpiresAt string
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
