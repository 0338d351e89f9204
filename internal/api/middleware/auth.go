package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/api/response"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/repository/redis"
	"github.com/huracan-ai/huracan/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Cookies describes the session cookie contract: HTTP-only, whole-site,
// max-age matching the server-side TTL, secure in production.
type Cookies struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Set writes the session cookie carrying an opaque token
func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token reads the session token from the request, "" when absent
func (c Cookies) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AuthMiddleware gates authenticated routes on a valid session cookie
type AuthMiddleware struct {
	auth    *service.AuthService
	cookies Cookies
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth *service.AuthService, cookies Cookies) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, cookies: cookies}
}

// Authenticate resolves the session cookie to a user. An invalid or expired
// session clears the cookie alongside the 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.cookies.Token(r)
		if token == "" {
			response.Unauthorized(w, "unauthorized")
			return
		}

		user, err := m.auth.ValidateSession(r.Context(), token)
		if err != nil {
			response.InternalError(w, "failed to validate session")
			return
		}
		if user == nil {
			m.cookies.Clear(w)
			response.Unauthorized(w, "session expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser gets the authenticated user from context
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// GetUserID gets the authenticated user's ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

// RateLimitMiddleware handles per-user rate limiting
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting based on user ID, failing open when the
// limiter backend is unavailable
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), userID.String())
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
