// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/divvy/internal/models"
)

var (
	// ErrDuplicateEmail is returned when creating a user whose email is
	// already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateMember is returned when adding a member who already has
	// an active membership in the group. The sqlite backend enforces this
	// with a partial unique index, so concurrent duplicate invites also
	// surface as this error.
	ErrDuplicateMember = errors.New("user is already a member of this group")

	// ErrAdminMismatch is returned by DeleteGroup when the group row does
	// not match the given admin id. The whole delete rolls back.
	ErrAdminMismatch = errors.New("group admin mismatch")
)

// Store defines the interface for Divvy's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Lookups return (nil, nil) when the row does not exist; the service
// layer decides whether absence is an error.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store. Returns ErrDuplicateEmail on a taken email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by id. Missing users
	// are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)

	// UpdateUsername changes a user's display name.
	UpdateUsername(ctx context.Context, userID int64, username string) error

	// SearchUsersByEmail returns up to limit users whose email contains
	// the fragment, case-insensitively.
	SearchUsersByEmail(ctx context.Context, fragment string, limit int) ([]*models.User, error)

	// CreateGroup persists a new group and enrolls the admin as its first
	// member, atomically. The group.ID field is populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by id.
	GetGroup(ctx context.Context, id int64) (*models.Group, error)

	// DeleteGroup deletes all memberships of the group and the group row
	// itself, atomically. The group row is additionally filtered by
	// adminID; on mismatch nothing is deleted and ErrAdminMismatch is
	// returned.
	DeleteGroup(ctx context.Context, groupID, adminID int64) error

	// ListGroupsForUser returns the groups the user has an active
	// membership in, newest first, each with its active member count.
	ListGroupsForUser(ctx context.Context, userID int64) ([]*models.GroupSummary, error)

	// AddMember creates an active membership. Returns ErrDuplicateMember
	// if one already exists.
	AddMember(ctx context.Context, groupID, userID int64) error

	// HasActiveMember reports whether the user has an active membership
	// in the group.
	HasActiveMember(ctx context.Context, groupID, userID int64) (bool, error)

	// RemoveMembers flags the given members of the group as removed.
	// Already-removed members are left unchanged (idempotent).
	RemoveMembers(ctx context.Context, groupID int64, memberIDs []int64) error

	// ListMembers resolves the group's active memberships to users.
	// A group with no active members yields an empty slice, not an error.
	ListMembers(ctx context.Context, groupID int64) ([]*models.Member, error)

	// CreateExpense persists a new expense. The expense.ID field is
	// populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by id.
	GetExpense(ctx context.Context, id int64) (*models.Expense, error)

	// ListExpensesByGroup returns the group's expenses in insertion
	// order, each annotated with the creator's username ("Unknown" when
	// the creator cannot be resolved).
	ListExpensesByGroup(ctx context.Context, groupID int64) ([]*models.Expense, error)

	// UpdateExpense overwrites the mutable fields of an expense.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpenseByCreator deletes the expense only if it was created
	// by creatorID, returning the number of rows deleted (0 or 1).
	DeleteExpenseByCreator(ctx context.Context, expenseID, creatorID int64) (int64, error)

	// GroupExpenseTotal returns the sum of the group's expense amounts.
	GroupExpenseTotal(ctx context.Context, groupID int64) (float64, error)

	// Close releases any resources held by the store.
	Close() error
}
