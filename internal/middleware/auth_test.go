package middleware

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/models"
)

type ping struct{}

// callerRecorder is a handler that remembers who called it.
func callerRecorder(got *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*got = GetUserID(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func requestWithAuth(header string) *connect.Request[ping] {
	req := connect.NewRequest(&ping{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	token, _, err := m.Generate(&models.User{ID: "u-1", Email: "a@example.com"})
	require.NoError(t, err)

	var caller string
	handler := RequireAuth(m)(callerRecorder(&caller))

	_, err = handler(context.Background(), requestWithAuth("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "u-1", caller)

	for _, header := range []string{"", "Token " + token, "Bearer nope"} {
		caller = ""
		_, err := handler(context.Background(), requestWithAuth(header))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), "header %q", header)
		assert.Empty(t, caller, "handler must not run")
	}
}

func TestOptionalAuth(t *testing.T) {
	m := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	token, _, err := m.Generate(&models.User{ID: "u-2", Email: "b@example.com"})
	require.NoError(t, err)

	var caller string
	handler := OptionalAuth(m)(callerRecorder(&caller))

	_, err = handler(context.Background(), requestWithAuth("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "u-2", caller)

	_, err = handler(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
	assert.Empty(t, caller)

	_, err = handler(context.Background(), requestWithAuth("Bearer broken"))
	require.NoError(t, err, "a bad token is ignored")
	assert.Empty(t, caller)
}

func TestWithClaims(t *testing.T) {
	claims := &auth.Claims{UserID: "u-3", Email: "c@example.com"}
	ctx := WithClaims(context.Background(), claims)

	assert.Equal(t, "u-3", GetUserID(ctx))
	assert.Equal(t, "c@example.com", GetEmail(ctx))
	assert.Same(t, claims, GetClaims(ctx))
	assert.Nil(t, GetClaims(context.Background()))
}
