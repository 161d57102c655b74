package httpserver

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/projects_api/internal/metrics"
	"github.com/Skotchmaster/projects_api/internal/models"
	"github.com/Skotchmaster/projects_api/internal/transport"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", transport.RegisterRequest{
		Username: "alice", Password: "wonderland", Role: "user",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[transport.UserResponse](t, rec)
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "user")

	tests := []struct {
		name string
		body any
		code int
	}{
		{"duplicate username", transport.RegisterRequest{Username: "alice", Password: "x", Role: "admin"}, http.StatusConflict},
		{"invalid role", transport.RegisterRequest{Username: "bob", Password: "x", Role: "root"}, http.StatusBadRequest},
		{"missing password", transport.RegisterRequest{Username: "bob", Role: "user"}, http.StatusBadRequest},
		{"wrong body type", []int{1, 2}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/register", tt.body, "")
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "wonderland", "admin")

	tok := env.login(t, "alice", "wonderland")
	claims, ok := env.Tokens.Verify(tok)
	require.True(t, ok)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.AuthOutcomesTotal.WithLabelValues(metrics.OutcomeLoginOK)))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "wonderland", "user")

	for _, creds := range []transport.LoginRequest{
		{Username: "alice", Password: "wrong"},
		{Username: "nobody", Password: "wonderland"},
	} {
		rec := env.do(t, http.MethodPost, "/login", creds, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(env.Metrics.AuthOutcomesTotal.WithLabelValues(metrics.OutcomeLoginFailed)))
}

func TestLogin_PaddedUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, " alice ", "pw123", "user")

	tok := env.login(t, " alice ", "pw123")
	assert.NotEmpty(t, tok)
	assert.NotEmpty(t, env.login(t, "alice", "pw123"))
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw123", "user")

	for name, creds := range map[string]transport.LoginRequest{
		"empty password": {Username: "alice", Password: ""},
		"empty username": {Username: "", Password: "pw123"},
		"blank username": {Username: "   ", Password: "pw123"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/login", creds, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())
		})
	}
}
