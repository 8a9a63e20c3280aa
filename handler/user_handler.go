package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"go-forum-api/common"
	"go-forum-api/logger"
	"go-forum-api/model"
	"go-forum-api/repository"
	"go-forum-api/service"
	"net/http"
	"strconv"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	repo        repository.IUserRepository
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(repo repository.IUserRepository, userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{repo: repo, userService: userService, authService: authService}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user  body  model.RegisterRequest  true  "New user"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError
// @Router       /api/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	hashedPassword, err := h.authService.HashPassword(req.Password)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Error hashing password", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}

	if err := h.repo.CreateUser(user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return common.NewAppError(http.StatusConflict, "Username or email already in use", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Error creating user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)

	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.User
// @Router       /api/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.ListUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)

	return nil
}

// UpdateUserRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                          true  "User ID"
// @Param        role  body  model.UpdateUserRoleRequest  true  "New role"
// @Success      204
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/users/{id}/role [put]
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user id", err)
	}

	var req model.UpdateUserRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"role":    req.Role,
	})
	log.Info("Update user role request received")

	if err := h.userService.UpdateUserRole(userID, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update user role", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
