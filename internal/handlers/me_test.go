package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestProfileHandler_GetMe(t *testing.T) {
	h := NewProfileHandler(&MockProfileService{
		FindUserFunc: func(_ context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", Role: models.RoleUser, IsActive: true, TempPassword: "leak"}, nil
		},
	})

	req := WithUser(NewTestRequest(t, http.MethodGet, "/me", nil), 7, models.RoleUser)
	w := httptest.NewRecorder()
	h.GetMe(w, req)

	var resp map[string]interface{}
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "alice", resp["username"])
	assert.NotContains(t, resp, "temp_password")
	assert.NotContains(t, resp, "password_hash")
}

func TestProfileHandler_CompleteIntroduction(t *testing.T) {
	var gotName string
	h := NewProfileHandler(&MockProfileService{
		CompleteIntroductionFunc: func(_ context.Context, userID int64, fullName string) (*models.User, error) {
			gotName = fullName
			return &models.User{ID: userID, FullName: fullName, HasCompletedIntroduction: true}, nil
		},
	})

	req := WithUser(NewTestRequest(t, http.MethodPut, "/me/introduction", IntroductionRequest{FullName: "Alice Doe"}), 7, models.RoleUser)
	w := httptest.NewRecorder()
	h.CompleteIntroduction(w, req)

	var resp UserResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.HasCompletedIntroduction)
	assert.Equal(t, "Alice Doe", gotName)

	t.Run("blank name", func(t *testing.T) {
		req := WithUser(NewTestRequest(t, http.MethodPut, "/me/introduction", IntroductionRequest{}), 7, models.RoleUser)
		w := httptest.NewRecorder()
		h.CompleteIntroduction(w, req)
		AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
	})
}

func TestProfileHandler_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{"admin", models.RoleAdmin, nil, http.StatusNoContent, ""},
		{"regular user", models.RoleUser, models.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"wrong current password", models.RoleAdmin, models.ErrValidation, http.StatusBadRequest, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProfileHandler(&MockProfileService{
				ChangePasswordFunc: func(_ context.Context, actor models.Actor, _, _ string) error {
					assert.Equal(t, tt.role, actor.Role)
					return tt.svcErr
				},
			})

			body := ChangePasswordRequest{CurrentPassword: "old-pass", NewPassword: "new-pass"}
			req := WithUser(NewTestRequest(t, http.MethodPut, "/me/password", body), 1, tt.role)
			w := httptest.NewRecorder()
			h.ChangePassword(w, req)

			if tt.wantError != "" {
				AssertErrorResponse(t, w, tt.wantStatus, tt.wantError)
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
