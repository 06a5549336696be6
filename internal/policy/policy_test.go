package policy

import (
	"testing"

	"github.com/mmynk/divvy/internal/models"
)

func TestCanMutateExpense(t *testing.T) {
	expense := &models.Expense{ID: 7, GroupID: 1, CreatedBy: 42}

	tests := []struct {
		name    string
		actorID int64
		expense *models.Expense
		want    bool
	}{
		{"creator allowed", 42, expense, true},
		{"other user denied", 43, expense, false},
		{"missing actor denied", 0, expense, false},
		{"negative actor denied", -1, expense, false},
		{"nil expense denied", 42, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateExpense(tt.actorID, tt.expense); got != tt.want {
				t.Errorf("CanMutateExpense(%d) = %v, want %v", tt.actorID, got, tt.want)
			}
		})
	}
}

func TestCanDeleteGroup(t *testing.T) {
	group := &models.Group{ID: 3, Name: "Trip", AdminID: 10}

	tests := []struct {
		name    string
		actorID int64
		group   *models.Group
		want    bool
	}{
		{"admin allowed", 10, group, true},
		{"member denied", 11, group, false},
		{"missing actor denied", 0, group, false},
		{"nil group denied", 10, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanDeleteGroup(tt.actorID, tt.group); got != tt.want {
				t.Errorf("CanDeleteGroup(%d) = %v, want %v", tt.actorID, got, tt.want)
			}
		})
	}
}

func TestCanRemoveMembers(t *testing.T) {
	group := &models.Group{ID: 3, Name: "Trip", AdminID: 10}

	tests := []struct {
		name      string
		actorID   int64
		memberIDs []int64
		want      bool
	}{
		{"admin with members allowed", 10, []int64{11, 12}, true},
		{"empty member list denied even for admin", 10, nil, false},
		{"non-admin denied", 11, []int64{12}, false},
		{"missing actor denied", 0, []int64{12}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRemoveMembers(tt.actorID, group, tt.memberIDs); got != tt.want {
				t.Errorf("CanRemoveMembers(%d, %v) = %v, want %v", tt.actorID, tt.memberIDs, got, tt.want)
			}
		})
	}
}

func TestCanManageMembers(t *testing.T) {
	group := &models.Group{ID: 3, AdminID: 10}

	if !CanManageMembers(10, group) {
		t.Error("expected admin to manage members")
	}
	if CanManageMembers(11, group) {
		t.Error("expected non-admin to be denied")
	}
	if CanManageMembers(10, nil) {
		t.Error("expected nil group to be denied")
	}
}
