package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func userIDFromTestContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

func TestHandler_HandleRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "created", body: `{"email":"jan@example.com","name":"Jan","password":"password1"}`, wantStatus: http.StatusCreated},
		{name: "duplicate", body: `{"email":"taken@example.com","name":"Jan","password":"password1"}`, wantStatus: http.StatusConflict},
		{name: "invalid email", body: `{"email":"nope","name":"Jan","password":"password1"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"email":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUserService(newMockRepository())
			_, err := s.Register(context.Background(), "taken@example.com", "Taken", "password1")
			require.NoError(t, err)
			h := NewHandler(s, userIDFromTestContext)

			req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.HandleRegister(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				var resp struct {
					Status string            `json:"status"`
					Data   map[string]string `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, "success", resp.Status)
				assert.NotEmpty(t, resp.Data["user_id"])
			}
		})
	}
}

func TestHandler_HandleGetUserProfile(t *testing.T) {
	s := NewUserService(newMockRepository())
	u, err := s.Register(context.Background(), "jan@example.com", "Jan", "password1")
	require.NoError(t, err)
	h := NewHandler(s, userIDFromTestContext)

	req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	rr := httptest.NewRecorder()
	h.HandleGetUserProfile(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, u.ID))
	rr = httptest.NewRecorder()
	h.HandleGetUserProfile(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `"email":"jan@example.com"`)
	assert.NotContains(t, body, u.PasswordHash)
	assert.NotContains(t, body, u.HashToken)
}
