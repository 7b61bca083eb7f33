package handler

// --- Request / Response types ---

type createAccountRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Active   bool   `json:"active"`
	Admin    bool   `json:"admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginFormRequest is the OAuth2 password form grant: the username field
// carries the account email.
type loginFormRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type createAccountResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}
