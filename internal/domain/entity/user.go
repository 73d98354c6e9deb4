package entity

// User is a forum member.
type User struct {
	ID          int64
	Username    string
	IsSuperuser bool
}

// ProfilePath returns the user's profile URL path.
func (u *User) ProfilePath() string {
	return "/users/" + formatID(u.ID) + "/" + Slugify(u.Username)
}

// Caller is the identity behind a request. The zero value is anonymous.
type Caller struct {
	UserID      int64
	Username    string
	IsSuperuser bool
}

// Anonymous is the unauthenticated caller.
var Anonymous = Caller{}

// IsAuthenticated reports whether the caller is a signed-in user.
func (c Caller) IsAuthenticated() bool { return c.UserID > 0 }

// Is reports whether the caller is the given user.
func (c Caller) Is(userID int64) bool {
	return c.IsAuthenticated() && c.UserID == userID
}

// CanViewDeleted reports whether the caller may see a deleted post
// written by authorID.
func (c Caller) CanViewDeleted(authorID int64) bool {
	return c.IsSuperuser || c.Is(authorID)
}
