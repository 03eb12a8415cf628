// Package http provides HTTP handlers for managing account records.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lostprophetsco/saasoft-tz/internal/models"
	"github.com/lostprophetsco/saasoft-tz/internal/service"
)

// AccountService defines the account operations required by AccountHandler.
type AccountService interface {
	// Template returns an empty editable account.
	Template() models.EditableAccount
	// Create adds a new account built from the editable form.
	Create(ctx context.Context, e models.EditableAccount) (models.Account, error)
	// Editable returns the stored account in editable form.
	Editable(id string) (models.EditableAccount, error)
	// ChangeType returns the stored account with its type switched, unsaved.
	ChangeType(id string, t models.AccountType) (models.EditableAccount, error)
	// Update applies an edit to a stored account.
	Update(ctx context.Context, id string, e models.EditableAccount) (models.Account, error)
	// Save validates and commits an account.
	Save(ctx context.Context, id string, e models.EditableAccount) (models.Account, error)
	// Delete removes an account, reporting whether it existed.
	Delete(ctx context.Context, id string) bool
	List() []models.Account
	Saved() []models.Account
	HasLocal() bool
}

// AccountHandler handles HTTP requests for account records.
type AccountHandler struct {
	// AccountService performs the underlying account operations.
	AccountService AccountService
}

// TypeRequest is the JSON payload of a type change.
type TypeRequest struct {
	// Type is the new account type.
	Type models.AccountType `json:"type"`
}

// HasLocalResponse is the JSON body of GET /api/accounts/has-local.
type HasLocalResponse struct {
	HasLocalAccounts bool `json:"hasLocalAccounts"`
}

// ValidationResponse is the JSON body returned with 422 when a save is refused.
type ValidationResponse struct {
	Errors []string `json:"errors"`
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.AccountService.List())
}

// Saved handles GET /api/accounts/saved.
func (h *AccountHandler) Saved(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.AccountService.Saved())
}

// HasLocal handles GET /api/accounts/has-local.
func (h *AccountHandler) HasLocal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HasLocalResponse{HasLocalAccounts: h.AccountService.HasLocal()})
}

// Template handles GET /api/accounts/new and returns an empty editable
// account the client fills in before POSTing it back.
func (h *AccountHandler) Template(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.AccountService.Template())
}

// Create handles POST /api/accounts. The body is an editable account; the
// stored account with its assigned id is returned with 201.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EditableAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	acc, err := h.AccountService.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

// Get handles GET /api/accounts/{id} and returns the account in editable form.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.AccountService.Editable(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Update handles PUT /api/accounts/{id}. The stored account loses its saved
// status until the next successful save.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.EditableAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	acc, err := h.AccountService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// ChangeType handles POST /api/accounts/{id}/type. The reset editable is
// returned to the client; nothing is stored.
func (h *AccountHandler) ChangeType(w http.ResponseWriter, r *http.Request) {
	var req TypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	e, err := h.AccountService.ChangeType(chi.URLParam(r, "id"), req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Save handles POST /api/accounts/{id}/save. Returns 422 with the list of
// validation problems when the account is not saveable.
func (h *AccountHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.EditableAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	acc, err := h.AccountService.Save(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// Delete handles DELETE /api/accounts/{id}. Deleting an unknown id also
// answers 204.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.AccountService.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	var notSaveable *service.NotSaveableError
	switch {
	case errors.As(err, &notSaveable):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Errors: notSaveable.Errors})
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidType):
		http.Error(w, "invalid account type", http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
