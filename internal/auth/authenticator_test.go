package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rdlima/go-auth-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserResolver struct {
	users map[string]models.User
}

func (f *fakeUserResolver) GetUserByID(id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return user, nil
}

func newTestAuthenticator() (*Authenticator, *Codec) {
	codec := NewCodec("test-secret", time.Hour)
	resolver := &fakeUserResolver{users: map[string]models.User{
		"user-123": {ID: "user-123", Email: "alice@example.com"},
	}}
	return NewAuthenticator(codec, resolver), codec
}

func TestAuthenticateResolvesValidToken(t *testing.T) {
	authn, codec := newTestAuthenticator()

	token, err := codec.Encode("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	user := authn.Authenticate(req)
	require.NotNil(t, user)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestAuthenticateReturnsNil(t *testing.T) {
	authn, codec := newTestAuthenticator()

	expired, err := codec.EncodeAt("user-123", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	deleted, err := codec.Encode("user-gone")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc123"},
		{"prefix without token", "Bearer"},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"deleted user", "Bearer " + deleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Nil(t, authn.Authenticate(req))
		})
	}
}

func TestMiddlewareRejectsUnauthenticated(t *testing.T) {
	authn, _ := newTestAuthenticator()

	handler := authn.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestMiddlewareInjectsUserIntoContext(t *testing.T) {
	authn, codec := newTestAuthenticator()

	token, err := codec.Encode("user-123")
	require.NoError(t, err)

	handler := authn.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := FromContext(r.Context())
		require.NotNil(t, user)
		assert.Equal(t, "user-123", user.ID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFromContextWithoutUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(req.Context()))
}
