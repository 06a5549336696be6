package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmynk/divvy/internal/models"
	"github.com/mmynk/divvy/internal/service"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type inviteMemberRequest struct {
	UserID int64 `json:"userId"`
}

// removeMembersRequest mirrors the legacy wire format: the actor travels
// in-band as userId.
type removeMembersRequest struct {
	MemberIDs []int64 `json:"memberIds"`
	UserID    int64   `json:"userId"`
}

// handleCreateGroup serves POST /groups. The caller becomes the admin
// and first member.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	group, err := s.groups.Create(r.Context(), req.Name, GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

// handleListGroups serves GET /groups: the caller's groups with member counts.
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if groups == nil {
		groups = []*models.GroupSummary{}
	}

	writeJSON(w, http.StatusOK, groups)
}

// handleDeleteGroup serves DELETE /groups/{groupId}. Admin-only; the
// group's memberships go with it.
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}

	if err := s.groups.Delete(r.Context(), groupID, GetUserID(r.Context())); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "Group not found")
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "Only the admin can delete this group")
		default:
			writeServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
}

// handleListMembers serves GET /groups/{groupId}/members. A group with
// no members answers with an empty list, not an error.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Group ID is required")
		return
	}

	members, err := s.groups.Members(r.Context(), groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch members")
		return
	}

	writeJSON(w, http.StatusOK, members)
}

// handleInviteMember serves POST /groups/{groupId}/members. Admin-only.
func (s *Server) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}

	var req inviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	err := s.groups.Invite(r.Context(), groupID, req.UserID, GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			writeError(w, http.StatusConflict, "User is already a member of this group")
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "Only the admin can invite members")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "Not found")
		default:
			writeServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Member added successfully"})
}

// handleRemoveMembers serves POST /groups/{groupId}/remove-members.
// Removal is a soft delete and idempotent.
func (s *Server) handleRemoveMembers(w http.ResponseWriter, r *http.Request) {
	groupID, okID := parseID(r, "groupId")

	var req removeMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if !okID || len(req.MemberIDs) == 0 || req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	err := s.groups.RemoveMembers(r.Context(), groupID, req.MemberIDs, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "Group not found")
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "Unauthorized: Only the admin can remove members")
		case errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Missing required fields")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to remove members")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Members removed successfully"})
}
