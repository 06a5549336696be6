package models

// Expense represents a single spend record within a group.
// Every expense belongs to exactly one group and has exactly one creator;
// only the creator may edit or delete it.
type Expense struct {
	// ID is the unique identifier for the expense, assigned by the database.
	ID int64 `json:"id"`

	// GroupID is the group this expense is scoped to.
	GroupID int64 `json:"group_id"`

	// Description is the human-readable label (e.g., "Lunch").
	Description string `json:"description"`

	// Amount is the spend amount. Non-negative. Currency formatting and
	// conversion are the caller's responsibility.
	Amount float64 `json:"amount"`

	// Category is free-text (e.g., "Food", "Travel").
	Category string `json:"category"`

	// Date is the date of the spend as provided by the client
	// (e.g., "2024-01-01"). Stored verbatim.
	Date string `json:"date"`

	// CreatedBy references the user who recorded the expense.
	CreatedBy int64 `json:"created_by"`

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64 `json:"created_at"`

	// CreatedByName is the creator's username, resolved at read time.
	// "Unknown" when the creator cannot be resolved.
	CreatedByName string `json:"created_by_name,omitempty"`
}

// ExpenseUpdate carries a partial edit of an expense. Nil fields are
// left unchanged.
type ExpenseUpdate struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
}
