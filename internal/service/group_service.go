package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/divvy/internal/models"
	"github.com/mmynk/divvy/internal/policy"
	"github.com/mmynk/divvy/internal/storage"
)

// GroupService implements group and membership operations.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates a new group owned by adminID. The admin is enrolled as
// the first member in the same transaction, so the group is never
// visible without a membership.
func (s *GroupService) Create(ctx context.Context, name string, adminID int64) (*models.GroupSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	if adminID <= 0 {
		return nil, fmt.Errorf("%w: actor identity required", ErrUnauthorized)
	}

	group := &models.Group{Name: name, AdminID: adminID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "name", name, "admin_id", adminID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	slog.Info("Group created", "group_id", group.ID, "admin_id", adminID)
	return &models.GroupSummary{Group: *group, MemberCount: 1}, nil
}

// Delete removes the group and all of its memberships. Admin-only.
func (s *GroupService) Delete(ctx context.Context, groupID, actorID int64) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if !policy.CanDeleteGroup(actorID, group) {
		slog.Warn("DeleteGroup denied", "group_id", groupID, "actor_id", actorID)
		return fmt.Errorf("%w: only the admin may delete a group", ErrForbidden)
	}

	if err := s.store.DeleteGroup(ctx, groupID, actorID); err != nil {
		// The store re-checks the admin inside the transaction; a
		// mismatch there means the group changed hands between our
		// policy check and the delete.
		if errors.Is(err, storage.ErrAdminMismatch) {
			return fmt.Errorf("%w: only the admin may delete a group", ErrForbidden)
		}
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	slog.Info("Group deleted", "group_id", groupID, "actor_id", actorID)
	return nil
}

// List returns the groups the actor has an active membership in, each
// with its active member count.
func (s *GroupService) List(ctx context.Context, actorID int64) ([]*models.GroupSummary, error) {
	if actorID <= 0 {
		return nil, fmt.Errorf("%w: actor identity required", ErrUnauthorized)
	}

	groups, err := s.store.ListGroupsForUser(ctx, actorID)
	if err != nil {
		slog.Error("ListGroups failed", "actor_id", actorID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return groups, nil
}

// Invite adds userID as an active member of the group. Admin-only.
// Returns ErrConflict when the user already has an active membership.
func (s *GroupService) Invite(ctx context.Context, groupID, userID, inviterID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if !policy.CanManageMembers(inviterID, group) {
		slog.Warn("Invite denied", "group_id", groupID, "inviter_id", inviterID)
		return fmt.Errorf("%w: only the admin may invite members", ErrForbidden)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	active, err := s.store.HasActiveMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if active {
		return fmt.Errorf("%w: user is already a member of this group", ErrConflict)
	}

	if err := s.store.AddMember(ctx, groupID, userID); err != nil {
		// A concurrent invite can win between the check and the insert;
		// the unique index reports it as a duplicate.
		if errors.Is(err, storage.ErrDuplicateMember) {
			return fmt.Errorf("%w: user is already a member of this group", ErrConflict)
		}
		slog.Error("Invite failed", "group_id", groupID, "user_id", userID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	slog.Info("Member invited", "group_id", groupID, "user_id", userID, "inviter_id", inviterID)
	return nil
}

// RemoveMembers soft-deletes the given members of the group. Admin-only
// and idempotent: re-removing an already-removed member changes nothing.
func (s *GroupService) RemoveMembers(ctx context.Context, groupID int64, memberIDs []int64, actorID int64) error {
	if len(memberIDs) == 0 {
		return fmt.Errorf("%w: member ids are required", ErrInvalidInput)
	}

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if !policy.CanRemoveMembers(actorID, group, memberIDs) {
		slog.Warn("RemoveMembers denied", "group_id", groupID, "actor_id", actorID)
		return fmt.Errorf("%w: only the admin may remove members", ErrForbidden)
	}

	// Unknown ids are dropped rather than failing the batch; removing a
	// non-member is already a no-op.
	known, err := s.store.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ids := make([]int64, 0, len(memberIDs))
	for _, id := range memberIDs {
		if _, ok := known[id]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		slog.Info("RemoveMembers matched no users", "group_id", groupID, "actor_id", actorID)
		return nil
	}

	if err := s.store.RemoveMembers(ctx, groupID, ids); err != nil {
		slog.Error("RemoveMembers failed", "group_id", groupID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	slog.Info("Members removed", "group_id", groupID, "count", len(ids), "actor_id", actorID)
	return nil
}

// Members returns the group's active members. A group with no members
// yields an empty slice, not an error.
func (s *GroupService) Members(ctx context.Context, groupID int64) ([]*models.Member, error) {
	if groupID <= 0 {
		return nil, fmt.Errorf("%w: invalid group id", ErrInvalidInput)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		slog.Error("ListMembers failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if members == nil {
		members = []*models.Member{}
	}

	return members, nil
}

func (s *GroupService) getGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	if groupID <= 0 {
		return nil, fmt.Errorf("%w: invalid group id", ErrInvalidInput)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if group == nil {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}

	return group, nil
}
