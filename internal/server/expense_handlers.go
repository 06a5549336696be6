package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/divvy/internal/models"
	"github.com/mmynk/divvy/internal/service"
)

// createExpenseRequest mirrors the legacy wire format: the actor travels
// in-band as created_by.
type createExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	CreatedBy   int64   `json:"created_by"`
}

// updateExpenseRequest carries a partial edit plus the in-band actor id.
type updateExpenseRequest struct {
	models.ExpenseUpdate
	UserID int64 `json:"userId"`
}

func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}

// handleListExpenses serves GET /expenses/{groupId}.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}

	expenses, err := s.expenses.List(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}

	writeJSON(w, http.StatusOK, expenses)
}

// handleCreateExpense serves POST /expenses/{groupId}.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if req.CreatedBy <= 0 {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	groupID, ok := parseID(r, "groupId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}

	expense, err := s.expenses.Create(r.Context(), groupID, service.CreateExpense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeServiceError(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Expense creation failed")
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

// handleCreateGroupExpense serves POST /groups/{groupId}, the alternate
// expense-create route. Unlike POST /expenses/{groupId} it resolves the
// creator's username into the response and 404s when the creator is
// unknown.
func (s *Server) handleCreateGroupExpense(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if req.CreatedBy <= 0 {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	expense, err := s.expenses.Create(r.Context(), groupID, service.CreateExpense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeServiceError(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Expense creation failed")
		return
	}

	name, err := s.expenses.CreatorName(r.Context(), req.CreatedBy)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServiceError(w, err)
		return
	}
	expense.CreatedByName = name

	writeJSON(w, http.StatusCreated, expense)
}

// handleUpdateExpense serves PATCH /expenses/{expenseId}.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, ok := parseID(r, "expenseId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	expense, err := s.expenses.Update(r.Context(), expenseID, req.UserID, req.ExpenseUpdate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "Expense not found")
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "Unauthorized action")
		case errors.Is(err, service.ErrInvalidInput):
			writeServiceError(w, err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update expense")
		}
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// handleDeleteExpense serves DELETE /expenses/{expenseId}. The actor is
// identified by the X-User-Id header; a mismatched actor deletes zero
// rows and still answers 200.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("X-User-Id")
	if header == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	actorID, err := strconv.ParseInt(header, 10, 64)
	if err != nil || actorID <= 0 {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// A malformed expense id matches nothing, mirroring the zero-row
	// delete semantics of a mismatched actor.
	expenseID, _ := parseID(r, "expenseId")

	if err := s.expenses.Delete(r.Context(), expenseID, actorID); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

// handleGroupTotal serves GET /groups/{groupId}/total.
func (s *Server) handleGroupTotal(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}

	total, err := s.expenses.GroupTotal(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"total": total})
}
