package models

// Membership associates a user with a group. At most one active
// (non-removed) membership exists per (user, group) pair; removal flips
// the Removed flag instead of deleting the row, preserving history.
type Membership struct {
	// ID is the unique identifier for the membership row.
	ID int64 `json:"id"`

	// UserID references the member.
	UserID int64 `json:"user_id"`

	// GroupID references the group.
	GroupID int64 `json:"group_id"`

	// Removed marks the membership as soft-deleted. Read paths filter
	// to Removed == false unless explicitly querying history.
	Removed bool `json:"removed"`

	// CreatedAt is the Unix timestamp when the membership was created.
	CreatedAt int64 `json:"created_at"`
}

// Member is the user-facing view of an active membership: the joined
// user fields a member listing needs, nothing more.
type Member struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
