package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/services"
	"github.com/stretchr/testify/assert"
)

func newAdminHandler(admin *MockAdminService, moderation *MockModerationService, ideas *MockIdeaService, comments *MockCommentService) *AdminHandler {
	if admin == nil {
		admin = &MockAdminService{}
	}
	if moderation == nil {
		moderation = &MockModerationService{}
	}
	return NewAdminHandler(admin, moderation, newIdeaHandler(ideas, nil, comments))
}

func TestAdminHandler_GetDashboardStats(t *testing.T) {
	h := newAdminHandler(&MockAdminService{
		DashboardStatsFunc: func(_ context.Context, actor models.Actor) (*services.DashboardStatsResponse, error) {
			if !actor.IsAdmin() {
				return nil, models.ErrForbidden
			}
			return &services.DashboardStatsResponse{TotalUsers: 3, TotalIdeas: 5, IdeasByCategory: map[string]int{"IT": 5}}, nil
		},
	}, nil, nil, nil)

	w := httptest.NewRecorder()
	h.GetDashboardStats(w, WithUser(NewTestRequest(t, http.MethodGet, "/admin/dashboard", nil), 1, models.RoleAdmin))

	var stats services.DashboardStatsResponse
	AssertJSONResponse(t, w, http.StatusOK, &stats)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 5, stats.IdeasByCategory["IT"])

	w = httptest.NewRecorder()
	h.GetDashboardStats(w, WithUser(NewTestRequest(t, http.MethodGet, "/admin/dashboard", nil), 7, models.RoleUser))
	AssertErrorResponse(t, w, http.StatusForbidden, "forbidden")
}

func TestAdminHandler_ListIdeasIncludesHidden(t *testing.T) {
	var gotVisibility models.Visibility
	h := newAdminHandler(nil, nil, &MockIdeaService{
		ListIdeasFunc: func(_ context.Context, v models.Visibility) ([]*models.Idea, error) {
			gotVisibility = v
			return []*models.Idea{{ID: 1, AuthorID: 7, IsHidden: true}}, nil
		},
	}, nil)

	w := httptest.NewRecorder()
	h.ListIdeas(w, WithUser(NewTestRequest(t, http.MethodGet, "/admin/ideas", nil), 1, models.RoleAdmin))

	var resp ListIdeasResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, models.VisibilityAdmin, gotVisibility)
	if assert.Len(t, resp.Ideas, 1) {
		assert.True(t, resp.Ideas[0].IsHidden)
	}
}

func TestAdminHandler_Moderate(t *testing.T) {
	moderation := &MockModerationService{
		ApproveFunc: func(_ context.Context, _ models.Actor, id int64) (*models.Idea, error) {
			return &models.Idea{ID: id, AuthorID: 7, IsApproved: true}, nil
		},
		HideFunc: func(_ context.Context, _ models.Actor, id int64) (*models.Idea, error) {
			return &models.Idea{ID: id, AuthorID: 7, IsHidden: true}, nil
		},
		UnhideFunc: func(context.Context, models.Actor, int64) (*models.Idea, error) {
			return nil, models.ErrNotFound
		},
	}
	h := newAdminHandler(nil, moderation, nil, nil)

	call := func(fn http.HandlerFunc) *httptest.ResponseRecorder {
		req := WithUser(NewTestRequest(t, http.MethodPost, "/admin/ideas/4/x", nil), 1, models.RoleAdmin)
		req = WithChiRouteContext(req, map[string]string{"id": "4"})
		w := httptest.NewRecorder()
		fn(w, req)
		return w
	}

	var resp IdeaResponse
	AssertJSONResponse(t, call(h.ApproveIdea), http.StatusOK, &resp)
	assert.True(t, resp.IsApproved)
	assert.Equal(t, "alice", resp.Author.Username)

	resp = IdeaResponse{}
	AssertJSONResponse(t, call(h.HideIdea), http.StatusOK, &resp)
	assert.True(t, resp.IsHidden)

	AssertErrorResponse(t, call(h.UnhideIdea), http.StatusNotFound, "not_found")
}

func TestAdminHandler_DeleteComment(t *testing.T) {
	var gotIdea, gotComment int64
	h := newAdminHandler(nil, nil, nil, &MockCommentService{
		DeleteCommentFunc: func(_ context.Context, _ models.Actor, ideaID, commentID int64) error {
			gotIdea, gotComment = ideaID, commentID
			if commentID == 9 {
				return models.ErrNotFound
			}
			return nil
		},
	})

	for commentID, want := range map[string]int{"2": http.StatusNoContent, "9": http.StatusNotFound, "x": http.StatusBadRequest} {
		req := WithUser(NewTestRequest(t, http.MethodDelete, "/admin/ideas/4/comments/"+commentID, nil), 1, models.RoleAdmin)
		req = WithChiRouteContext(req, map[string]string{"id": "4", "commentID": commentID})
		w := httptest.NewRecorder()
		h.DeleteComment(w, req)
		assert.Equal(t, want, w.Code, commentID)
	}
	assert.Equal(t, int64(4), gotIdea)
	assert.Contains(t, []int64{2, 9}, gotComment)
}
