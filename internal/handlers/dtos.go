package handlers

import (
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/query"
)

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// CreateIdeaRequest represents the request body for submitting an idea
type CreateIdeaRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	ShortDescription string `json:"short_description" validate:"max=500"`
	FullDescription  string `json:"full_description" validate:"required,max=10000"`
	ExpectedEffect   string `json:"expected_effect" validate:"required,max=5000"`
	Category         string `json:"category" validate:"required,max=100"`
}

// VoteRequest represents the request body for voting
type VoteRequest struct {
	Direction string `json:"direction" validate:"required"`
}

// CommentRequest represents the request body for commenting
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// IntroductionRequest represents the request body for completing onboarding
type IntroductionRequest struct {
	FullName string `json:"full_name" validate:"required,max=200"`
}

// ChangePasswordRequest represents the request body for an admin password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=4,max=72"`
}

// RegisterUserRequest represents the request body for admin registration of an account
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// GenerateUsersRequest represents the request body for bulk account generation
type GenerateUsersRequest struct {
	Count int `json:"count" validate:"gte=1,lte=100"`
}

// CategoryRequest represents the request body for adding or renaming a category
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Response DTOs

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID                       int64     `json:"id"`
	Username                 string    `json:"username"`
	FullName                 string    `json:"full_name"`
	Role                     string    `json:"role"`
	IsActive                 bool      `json:"is_active"`
	HasCompletedIntroduction bool      `json:"has_completed_introduction"`
	RequiresPasswordChange   bool      `json:"requires_password_change"`
	CreatedAt                time.Time `json:"created_at"`
}

// LoginResponse represents the response from a successful login
type LoginResponse struct {
	AccessToken         string        `json:"access_token"`
	TokenType           string        `json:"token_type"`
	ExpiresAt           time.Time     `json:"expires_at"`
	User                *UserResponse `json:"user"`
	NeedsIntroduction   bool          `json:"needs_introduction"`
	NeedsPasswordChange bool          `json:"needs_password_change"`
}

// CommentResponse represents a comment in the HTTP response
type CommentResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// IdeaResponse represents an idea in the HTTP response
type IdeaResponse struct {
	ID               int64              `json:"id"`
	Title            string             `json:"title"`
	ShortDescription string             `json:"short_description"`
	FullDescription  string             `json:"full_description"`
	ExpectedEffect   string             `json:"expected_effect"`
	Category         string             `json:"category"`
	Author           *models.AuthorInfo `json:"author,omitempty"`
	AuthorID         int64              `json:"author_id"`
	CreatedAt        time.Time          `json:"created_at"`
	VotesFor         int                `json:"votes_for"`
	VotesAgainst     int                `json:"votes_against"`
	Rating           int                `json:"rating"`
	HasVoted         bool               `json:"has_voted"`
	VotedUsers       []int64            `json:"voted_users,omitempty"`
	IsApproved       bool               `json:"is_approved"`
	IsHidden         bool               `json:"is_hidden"`
	Comments         []CommentResponse  `json:"comments"`
}

// ListIdeasResponse represents a filtered idea listing
type ListIdeasResponse struct {
	Ideas          []IdeaResponse `json:"ideas"`
	Total          int            `json:"total"`
	IsSearchActive bool           `json:"is_search_active"`
	Query          string         `json:"query,omitempty"`
}

// TempPasswordResponse is one not-yet-used generated credential
type TempPasswordResponse struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	TempPassword string    `json:"temp_password"`
	CreatedAt    time.Time `json:"created_at"`
}

func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:                       user.ID,
		Username:                 user.Username,
		FullName:                 user.FullName,
		Role:                     string(user.Role),
		IsActive:                 user.IsActive,
		HasCompletedIntroduction: user.HasCompletedIntroduction,
		RequiresPasswordChange:   user.RequiresPasswordChange,
		CreatedAt:                user.CreatedAt,
	}
}

func usersToResponse(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userModelToResponse(u))
	}
	return out
}

// ideaToResponse renders idea as seen by viewer. Voter ids are only
// included for administrators.
func ideaToResponse(idea *models.Idea, author *models.AuthorInfo, viewer models.Actor) IdeaResponse {
	comments := make([]CommentResponse, 0, len(idea.Comments))
	for _, c := range idea.Comments {
		comments = append(comments, CommentResponse{ID: c.ID, UserID: c.UserID, Text: c.Text, CreatedAt: c.CreatedAt})
	}

	resp := IdeaResponse{
		ID:               idea.ID,
		Title:            idea.Title,
		ShortDescription: idea.ShortDescription,
		FullDescription:  idea.FullDescription,
		ExpectedEffect:   idea.ExpectedEffect,
		Category:         idea.Category,
		Author:           author,
		AuthorID:         idea.AuthorID,
		CreatedAt:        idea.CreatedAt,
		VotesFor:         idea.VotesFor,
		VotesAgainst:     idea.VotesAgainst,
		Rating:           idea.Rating(),
		HasVoted:         idea.HasVoted(viewer.UserID),
		IsApproved:       idea.IsApproved,
		IsHidden:         idea.IsHidden,
		Comments:         comments,
	}
	if viewer.IsAdmin() {
		resp.VotedUsers = idea.VotedUsers
	}
	return resp
}

func enrichedToResponse(ideas []query.EnrichedIdea, viewer models.Actor) []IdeaResponse {
	out := make([]IdeaResponse, 0, len(ideas))
	for i := range ideas {
		author := ideas[i].Author
		out = append(out, ideaToResponse(ideas[i].Idea, &author, viewer))
	}
	return out
}
