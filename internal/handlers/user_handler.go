package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookstore/internal/middleware"
	"bookstore/internal/models"
	"bookstore/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// UserHandler serves one role partition: the router mounts one instance
// under /customers and another under /admins.
type UserHandler struct {
	users  *services.UserService
	auth   *services.AuthService
	logger zerolog.Logger
}

func NewUserHandler(users *services.UserService, auth *services.AuthService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		auth:   auth,
		logger: logger,
	}
}

func sanitize(user *models.User) *models.User {
	u := *user
	u.PasswordHash = ""
	return &u
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.users.Register(&req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sanitize(user))
}

func (h *UserHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(&req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	token, err := h.auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		respondWithError(w, http.StatusInternalServerError, "token_generation_failed", "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, models.AuthResponse{
		User:  sanitize(user),
		Token: token,
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role, ok := middleware.GetUserRole(r)
	if !ok || role != string(models.RoleAdmin) {
		respondWithError(w, http.StatusForbidden, "forbidden", "Only admins can view all users")
		return
	}

	users, err := h.users.ListUsers()
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	out := make([]*models.User, 0, len(users))
	for _, user := range users {
		out = append(out, sanitize(user))
	}
	respondWithJSON(w, http.StatusOK, out)
}

// canAccess allows admins everywhere and any user access to their own
// record.
func canAccess(r *http.Request, targetID int) bool {
	role, _ := middleware.GetUserRole(r)
	if role == string(models.RoleAdmin) {
		return true
	}
	userID, ok := middleware.GetUserID(r)
	return ok && userID == targetID
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	if !canAccess(r, id) {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only view your own profile")
		return
	}

	user, err := h.users.GetUser(id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sanitize(user))
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	if !canAccess(r, id) {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only update your own profile")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.users.UpdateUser(id, &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sanitize(user))
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	if !canAccess(r, id) {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only delete your own account")
		return
	}

	if err := h.users.DeleteUser(id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
