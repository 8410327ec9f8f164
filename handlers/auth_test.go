package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name       string
		username   string
		password   string
		wantRole   string
		wantURL    string
		wantWorker string
	}{
		{"asha", "asha001", "asha123", "ASHA", "http://localhost:5174", "AS001"},
		{"trimmed", " health001 ", " health123 ", "PHC", "http://localhost:5173", "PHC001"},
		{"admin", "admin", "admin123", "ADMIN", "http://localhost:5173", "ADMIN001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/auth/login", map[string]string{"username": tt.username, "password": tt.password})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp LoginResponse
			decode(t, w, &resp)
			assert.True(t, resp.Success)
			assert.Equal(t, "Login successful", resp.Message)
			assert.Equal(t, tt.wantRole, resp.User.Role)
			assert.Equal(t, tt.wantWorker, resp.User.WorkerID)
			assert.Equal(t, strings.TrimSpace(tt.username), resp.User.Username)
			assert.Equal(t, tt.wantURL, resp.DashboardURL)

			claims, err := env.auth.ValidateToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, resp.User, claims.Identity())
		})
	}
}

func TestLoginRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "asha001", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/login", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/auth/verify", map[string]string{"token": "anything"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Token verified"}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/verify", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := env.auth.GenerateToken(services.Identity{Username: "asha001", Name: "Priya Sharma", Role: "ASHA", WorkerID: "AS001"})
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/auth/verify", map[string]string{"token": token})
	var resp struct {
		Success bool              `json:"success"`
		User    services.Identity `json:"user"`
	}
	decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Priya Sharma", resp.User.Name)

	req := httptest.NewRequest(http.MethodPost, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"worker_id":"AS001"`)
}
