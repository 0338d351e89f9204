package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/huracan-ai/huracan/internal/api/middleware"
	"github.com/huracan-ai/huracan/internal/api/response"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/service"
)

var validate = validator.New()

// validationMessages flattens validator errors into a field → message map
func validationMessages(err error) any {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	messages := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			messages[field] = "field is required"
		case "email":
			messages[field] = "invalid email format"
		case "min":
			messages[field] = "must be at least " + e.Param() + " characters"
		case "max":
			messages[field] = "must be at most " + e.Param() + " characters"
		case "oneof":
			messages[field] = "must be one of: " + e.Param()
		default:
			messages[field] = "validation failed on " + e.Tag()
		}
	}
	return messages
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	cookies     middleware.Cookies
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cookies middleware.Cookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Signup handles user registration. Success opens a session immediately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input domain.UserSignup
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	user, token, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			response.Conflict(w, "email already registered")
			return
		}
		response.InternalError(w, "failed to sign up")
		return
	}

	h.cookies.Set(w, token)
	response.OK(w, user.Profile())
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(w, "invalid email or password")
			return
		}
		response.InternalError(w, "failed to log in")
		return
	}

	h.cookies.Set(w, token)
	response.OK(w, user.Profile())
}

// Logout destroys the session and clears the cookie. It never fails: an
// absent or already-invalidated cookie still gets a 200.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.DestroySession(r.Context(), h.cookies.Token(r))
	h.cookies.Clear(w)
	response.OK(w, map[string]any{"message": "logged out"})
}

// Me returns the sanitized profile of the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	response.OK(w, user.Profile())
}
