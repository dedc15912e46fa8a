package models

import (
	"slices"
	"time"
)

// VoteDirection is the side a user takes on an idea.
type VoteDirection string

const (
	VoteFor     VoteDirection = "for"
	VoteAgainst VoteDirection = "against"
)

// Valid reports whether d is one of the two accepted directions.
func (d VoteDirection) Valid() bool {
	return d == VoteFor || d == VoteAgainst
}

// Visibility selects which ideas a listing may include.
type Visibility int

const (
	// VisibilityPublic excludes hidden ideas.
	VisibilityPublic Visibility = iota
	// VisibilityAdmin includes every idea.
	VisibilityAdmin
)

// VisibilityFor returns the listing visibility an actor is entitled to.
func VisibilityFor(actor Actor) Visibility {
	if actor.IsAdmin() {
		return VisibilityAdmin
	}
	return VisibilityPublic
}

// Comment is stored embedded in its idea. JSON tags define the persisted shape.
type Comment struct {
	ID        int64     `json:"id"`
	IdeaID    int64     `json:"idea_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Idea struct {
	ID               int64
	Title            string
	ShortDescription string
	FullDescription  string
	ExpectedEffect   string
	Category         string
	AuthorID         int64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	VotesFor     int
	VotesAgainst int
	VotedUsers   []int64 // one entry per voter, in voting order
	IsApproved   bool
	IsHidden     bool
	Comments     []Comment

	LastCommentID int64 // comment id allocator, never decremented
	Version       int64 // bumped on every committed mutation
}

// NewIdea is the caller-supplied part of an idea.
type NewIdea struct {
	Title            string
	ShortDescription string
	FullDescription  string
	ExpectedEffect   string
	Category         string
}

// Rating is votes_for minus votes_against.
func (i *Idea) Rating() int {
	return i.VotesFor - i.VotesAgainst
}

// HasVoted reports whether userID is already in the voted set.
func (i *Idea) HasVoted(userID int64) bool {
	return slices.Contains(i.VotedUsers, userID)
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (i *Idea) CommentIndex(commentID int64) int {
	return slices.IndexFunc(i.Comments, func(c Comment) bool { return c.ID == commentID })
}

// Clone returns a deep copy safe to hand to readers while the original keeps changing.
func (i *Idea) Clone() *Idea {
	if i == nil {
		return nil
	}
	c := *i
	c.VotedUsers = slices.Clone(i.VotedUsers)
	c.Comments = slices.Clone(i.Comments)
	if c.VotedUsers == nil {
		c.VotedUsers = []int64{}
	}
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
	return &c
}
