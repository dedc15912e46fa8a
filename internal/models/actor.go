package models

// Actor identifies who is calling into the engine. It is passed explicitly to
// every role-gated operation instead of being read from ambient session state.
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the actor may perform moderation and account management.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ActorFor builds the actor context for an authenticated user.
func ActorFor(u *User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}
