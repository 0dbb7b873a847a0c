package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"ainotes/internal/contextutil"
	"ainotes/internal/service"
)

// LoginHandler exchanges credentials for an access token.
type LoginHandler struct {
	authService service.AuthService
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(authService service.AuthService) *LoginHandler {
	return &LoginHandler{authService: authService}
}

// LoginRequest represents the JSON login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ServeHTTP accepts either a JSON body or an OAuth2 password form with
// username and password fields.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req service.LoginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "invalid login form", "error", err)
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		req = service.LoginRequest{Email: r.PostForm.Get("username"), Password: r.PostForm.Get("password")}
	default:
		var body LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logger.WarnContext(ctx, "invalid login body", "error", err)
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		req = service.LoginRequest{Email: body.Email, Password: body.Password}
	}

	token, err := h.authService.Login(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to log in")
		return
	}

	writeJSON(ctx, w, http.StatusOK, TokenResponse{AccessToken: token.AccessToken, TokenType: token.TokenType})
}
