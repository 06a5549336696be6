package models

// Group represents a named collection of users sharing expenses.
// The creating user becomes the admin and is auto-enrolled as a member.
type Group struct {
	// ID is the unique identifier for the group, assigned by the database.
	ID int64 `json:"id"`

	// Name is the display name of the group (e.g., "Trip", "Roommates").
	Name string `json:"name"`

	// AdminID references the user who owns the group. Only the admin may
	// delete the group or manage its membership.
	AdminID int64 `json:"admin_id"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// GroupSummary is a Group annotated with its active member count,
// as returned by group listings.
type GroupSummary struct {
	Group
	MemberCount int `json:"member_count"`
}
