package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/divvy/internal/models"
	"github.com/mmynk/divvy/internal/storage"
)

// CreateGroup inserts the group row and the admin's membership in a
// single transaction, so a group can never exist without its admin
// enrolled.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"INSERT INTO groups (name, admin_id, created_at) VALUES (?, ?, ?)",
		group.Name, group.AdminID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read group id: %w", err)
	}
	group.ID = id

	_, err = tx.ExecContext(ctx,
		"INSERT INTO memberships (user_id, group_id, removed, created_at) VALUES (?, ?, 0, ?)",
		group.AdminID, group.ID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enroll admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, admin_id, created_at FROM groups WHERE id = ?",
		id,
	).Scan(&group.ID, &group.Name, &group.AdminID, &group.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// DeleteGroup deletes the group's memberships and the group row in a
// single transaction. The group delete is filtered by admin_id as a
// defense-in-depth check; a mismatch rolls back the membership delete
// too, so the group is never left stripped of its memberships.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID, adminID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM memberships WHERE group_id = ?",
		groupID,
	); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"DELETE FROM groups WHERE id = ? AND admin_id = ?",
		groupID, adminID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrAdminMismatch
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListGroupsForUser returns the groups the user is an active member of,
// newest first, with active member counts.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID int64) ([]*models.GroupSummary, error) {
	query := `
		SELECT g.id, g.name, g.admin_id, g.created_at,
		       (SELECT COUNT(*) FROM memberships mc
		        WHERE mc.group_id = g.id AND mc.removed = 0) AS member_count
		FROM groups g
		JOIN memberships m ON m.group_id = g.id
		WHERE m.user_id = ? AND m.removed = 0
		ORDER BY g.id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.GroupSummary
	for rows.Next() {
		g := &models.GroupSummary{}
		if err := rows.Scan(&g.ID, &g.Name, &g.AdminID, &g.CreatedAt, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	return groups, nil
}

// AddMember creates an active membership for the user. The partial
// unique index on (user_id, group_id) rejects a second active row, which
// is how concurrent duplicate invites collapse to one membership.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO memberships (user_id, group_id, removed, created_at) VALUES (?, ?, 0, ?)",
		userID, groupID, time.Now().Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// HasActiveMember reports whether the user has an active membership in the group.
func (s *SQLiteStore) HasActiveMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memberships WHERE group_id = ? AND user_id = ? AND removed = 0",
		groupID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// RemoveMembers soft-deletes the given members of the group. Rows that
// are already removed are untouched, so re-removal is a no-op.
func (s *SQLiteStore) RemoveMembers(ctx context.Context, groupID int64, memberIDs []int64) error {
	if len(memberIDs) == 0 {
		return nil
	}

	query := `
		UPDATE memberships SET removed = 1
		WHERE group_id = ? AND removed = 0
		AND user_id IN (?` + repeatPlaceholder(len(memberIDs)-1) + `)`

	args := make([]interface{}, 0, len(memberIDs)+1)
	args = append(args, groupID)
	for _, id := range memberIDs {
		args = append(args, id)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove members: %w", err)
	}
	return nil
}

// ListMembers resolves the group's active memberships to user rows.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID int64) ([]*models.Member, error) {
	query := `
		SELECT u.id, u.username, u.email
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = ? AND m.removed = 0
		ORDER BY m.id
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.ID, &m.Username, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}
