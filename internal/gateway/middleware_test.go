package gateway

import (
	"net/http"
	"testing"
)

func TestAdminRoutesRequireAPIKey(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"vrno-api-key": "nope"}, http.StatusUnauthorized},
		{"valid key", map[string]string{"vrno-api-key": testAPIKey}, http.StatusOK},
		{"valid alternate header", map[string]string{"x-api-key": testAPIKey}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/admin-data/configs", "", tc.headers)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestIssueTokenEndpointRequiresAPIKey(t *testing.T) {
	env := newTestEnv(t, nil)

	body := `{"username": "alice", "purpose": "balance_reveal"}`
	rec := env.do(t, http.MethodPost, "/api/auth/token", body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without key status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/token", body, map[string]string{"vrno-api-key": testAPIKey})
	if rec.Code != http.StatusCreated {
		t.Errorf("with key status = %d, want 201, body = %s", rec.Code, rec.Body.String())
	}
}
