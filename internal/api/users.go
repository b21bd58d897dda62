package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/loja/internal/model"
	"github.com/erazemk/loja/internal/store"
)

// UsersHandler handles user management endpoints (admin only).
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin manager user"`
}

type updateUserRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager user"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "", "list users")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(users))
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, string(hash), req.Role)
	if err != nil {
		jsonError(w, http.StatusConflict, "username already exists")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user created", "user", claims.Username, "new_user", req.Username, "role", req.Role)
	jsonResponse(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "user not found", "get user")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}. Only the role can change.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "user not found", "update user")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	if user.Role == model.RoleAdmin && req.Role != model.RoleAdmin && !h.otherAdminExists(w, r) {
		return
	}

	if err := store.UpdateUserRole(r.Context(), h.DB, id, req.Role); err != nil {
		storeError(w, err, "user not found", "update user")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user role updated", "user", claims.Username, "target_user", user.Username, "new_role", req.Role)
	user.Role = req.Role
	jsonResponse(w, http.StatusOK, user)
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var req resetPasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		storeError(w, err, "user not found", "reset password")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user password reset", "user", claims.Username, "target_user", h.userName(r, id))
	jsonMessage(w, "password reset")
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	// Prevent self-deletion.
	claims := GetClaims(r.Context())
	if claims != nil && claims.UserID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	targetName := h.userName(r, id)
	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "user not found", "delete user")
		return
	}

	slog.Info("user deleted", "user", claims.Username, "deleted_user", targetName)
	jsonMessage(w, "user deleted")
}

// otherAdminExists guards demoting the last admin. It writes the response
// when the answer is no.
func (h *UsersHandler) otherAdminExists(w http.ResponseWriter, r *http.Request) bool {
	n, err := store.CountAdmins(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "", "count admins")
		return false
	}
	if n <= 1 {
		jsonError(w, http.StatusConflict, "cannot demote the last admin")
		return false
	}
	return true
}

func (h *UsersHandler) userName(r *http.Request, id int64) string {
	if u, _ := store.GetUser(r.Context(), h.DB, id); u != nil {
		return u.Username
	}
	return fmt.Sprintf("id:%d", id)
}
