// Package policy holds the authorization decisions for Divvy.
//
// Every function is a pure predicate over an actor id and a target
// entity: no storage access, no side effects. Decisions fail closed — a
// missing or non-positive actor id denies the action.
package policy

import "github.com/mmynk/divvy/internal/models"

// CanMutateExpense reports whether the actor may edit or delete the
// expense. Only the recorded creator may mutate an expense.
func CanMutateExpense(actorID int64, expense *models.Expense) bool {
	if actorID <= 0 || expense == nil {
		return false
	}
	return actorID == expense.CreatedBy
}

// CanDeleteGroup reports whether the actor may delete the group.
// Only the group admin may delete it.
func CanDeleteGroup(actorID int64, group *models.Group) bool {
	if actorID <= 0 || group == nil {
		return false
	}
	return actorID == group.AdminID
}

// CanManageMembers reports whether the actor may invite members to or
// remove members from the group. Membership management is admin-only.
func CanManageMembers(actorID int64, group *models.Group) bool {
	if actorID <= 0 || group == nil {
		return false
	}
	return actorID == group.AdminID
}

// CanRemoveMembers reports whether the actor may remove the given
// members from the group. Removing an empty member list is denied.
func CanRemoveMembers(actorID int64, group *models.Group, memberIDs []int64) bool {
	if len(memberIDs) == 0 {
		return false
	}
	return CanManageMembers(actorID, group)
}
