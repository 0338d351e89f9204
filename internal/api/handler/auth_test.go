package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/api/middleware"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stores keep the handler tests focused on the HTTP contract

type memUserRepo struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[uuid.UUID]*domain.User{}, byEmail: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.byEmail[email], nil
}

func (r *memUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *memSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	s := *session
	r.sessions[s.ID] = &s
	return nil
}

func (r *memSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	return r.sessions[id], nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

type authFixture struct {
	handler  *AuthHandler
	authMw   *middleware.AuthMiddleware
	sessions *memSessionRepo
}

func newAuthFixture() *authFixture {
	cookies := middleware.Cookies{Name: "sessionId", TTL: 7 * 24 * time.Hour}
	sessions := newMemSessionRepo()
	authService := service.NewAuthService(newMemUserRepo(), sessions, cookies.TTL)
	return &authFixture{
		handler:  NewAuthHandler(authService, cookies),
		authMw:   middleware.NewAuthMiddleware(authService, cookies),
		sessions: sessions,
	}
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "sessionId" {
			return c
		}
	}
	return nil
}

func signup(t *testing.T, f *authFixture, name, email, password string) *http.Response {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.Signup(rec, req)
	return rec.Result()
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("sets the session cookie", func(t *testing.T) {
		f := newAuthFixture()
		resp := signup(t, f, "Ana", "ana@example.com", "hunter2hunter2")

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cookie := sessionCookie(t, resp)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	})

	t.Run("never leaks the password hash", func(t *testing.T) {
		f := newAuthFixture()
		resp := signup(t, f, "Ana", "ana@example.com", "hunter2hunter2")

		var envelope struct {
			Success bool           `json:"success"`
			Data    map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, "Ana", envelope.Data["name"])
		assert.Equal(t, "ana@example.com", envelope.Data["email"])
		assert.NotContains(t, envelope.Data, "password_hash")
		assert.NotContains(t, envelope.Data, "PasswordHash")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newAuthFixture()
		signup(t, f, "Ana", "ana@example.com", "hunter2hunter2")
		resp := signup(t, f, "Ana Again", "ana@example.com", "hunter2hunter2")

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		f := newAuthFixture()
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(`{"name":"Ana"}`))
		rec := httptest.NewRecorder()
		f.handler.Signup(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("wrong password is unauthorized", func(t *testing.T) {
		f := newAuthFixture()
		signup(t, f, "Ana", "ana@example.com", "hunter2hunter2")

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"wrong-password"}`))
		rec := httptest.NewRecorder()
		f.handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, sessionCookie(t, rec.Result()))
	})

	t.Run("success sets a fresh cookie", func(t *testing.T) {
		f := newAuthFixture()
		signup(t, f, "Ana", "ana@example.com", "hunter2hunter2")

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"hunter2hunter2"}`))
		rec := httptest.NewRecorder()
		f.handler.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		cookie := sessionCookie(t, rec.Result())
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("clears the cookie and invalidates the session", func(t *testing.T) {
		f := newAuthFixture()
		resp := signup(t, f, "Ana", "ana@example.com", "hunter2hunter2")
		token := sessionCookie(t, resp).Value

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: token})
		rec := httptest.NewRecorder()
		f.handler.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		cleared := sessionCookie(t, rec.Result())
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
		assert.Nil(t, f.sessions.sessions[token])
	})

	t.Run("repeat logout still succeeds", func(t *testing.T) {
		f := newAuthFixture()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: "already-gone"})
		rec := httptest.NewRecorder()
		f.handler.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		cleared := sessionCookie(t, rec.Result())
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("valid session returns the profile", func(t *testing.T) {
		f := newAuthFixture()
		resp := signup(t, f, "Ana", "ana@example.com", "hunter2hunter2")
		token := sessionCookie(t, resp).Value

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: token})
		rec := httptest.NewRecorder()
		f.authMw.Authenticate(http.HandlerFunc(f.handler.Me)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		assert.Equal(t, "ana@example.com", envelope.Data["email"])
	})

	t.Run("unknown session is unauthorized and clears the cookie", func(t *testing.T) {
		f := newAuthFixture()

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: "bogus"})
		rec := httptest.NewRecorder()
		f.authMw.Authenticate(http.HandlerFunc(f.handler.Me)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		cleared := sessionCookie(t, rec.Result())
		require.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)
	})

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		f := newAuthFixture()

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rec := httptest.NewRecorder()
		f.authMw.Authenticate(http.HandlerFunc(f.handler.Me)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
