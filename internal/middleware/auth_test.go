package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"garagelog/internal/model"
	"garagelog/internal/service"
	"garagelog/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := util.Claims{
		Email: "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	mw := AuthMiddleware(testSecret, zerolog.Nop())

	var gotSubject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = r.Context().Value(AuthUIDContextKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		gotSubject = ""
		req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "auth-1", time.Hour))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "auth-1", gotSubject)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
		req.Header.Set("Authorization", "Basic xyz")
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "auth-1", -time.Hour))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

type stubUserService struct {
	user *model.User
	err  error
}

func (s *stubUserService) GetByAuthUID(_ context.Context, _ string) (*model.User, error) {
	return s.user, s.err
}

func (s *stubUserService) Sync(_ context.Context, _ string, _ service.SyncProfile) (*model.User, bool, error) {
	return nil, false, nil
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "usr-1", u.ID)
		w.WriteHeader(http.StatusOK)
	})

	withSubject := func(subject string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
		if subject != "" {
			req = req.WithContext(context.WithValue(req.Context(), AuthUIDContextKey, subject))
		}
		return req
	}

	t.Run("resolves the synced user", func(t *testing.T) {
		mw := RequireUser(&stubUserService{user: &model.User{ID: "usr-1", AuthUID: "auth-1"}})
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, withSubject("auth-1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unsynced subject gets 404", func(t *testing.T) {
		mw := RequireUser(&stubUserService{err: service.ErrNotFound})
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, withSubject("auth-404"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("no subject in context", func(t *testing.T) {
		mw := RequireUser(&stubUserService{})
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, withSubject(""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
