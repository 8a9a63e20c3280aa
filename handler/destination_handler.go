package handler

import (
	"encoding/json"
	"errors"
	"go-forum-api/common"
	"go-forum-api/logger"
	"go-forum-api/model"
	"go-forum-api/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type DestinationHandler struct {
	service *service.DestinationService
}

func NewDestinationHandler(service *service.DestinationService) *DestinationHandler {
	return &DestinationHandler{service: service}
}

// List godoc
// @Summary      List destinations
// @Tags         destinations
// @Produce      json
// @Success      200  {array}  model.Destination
// @Router       /api/destinations [get]
func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	destinations, err := h.service.ListDestinations()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve destinations", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(destinations)

	return nil
}

// Create godoc
// @Summary      Create a destination
// @Tags         destinations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        destination  body  model.CreateDestinationRequest  true  "New destination"
// @Success      201  {object}  model.Destination
// @Router       /api/destinations [post]
func (h *DestinationHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateDestinationRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"name":    req.Name,
	})
	log.Info("Create destination request received")

	destination, err := h.service.CreateDestination(userID, req.Name, req.Content)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create destination", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(destination)

	return nil
}

// Update godoc
// @Summary      Update a destination
// @Tags         destinations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path  int                             true  "Destination ID"
// @Param        destination  body  model.UpdateDestinationRequest  true  "New content"
// @Success      200  {object}  model.Destination
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/destinations/{id} [put]
func (h *DestinationHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid destination id", err)
	}

	var req model.UpdateDestinationRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	destination, err := h.service.UpdateDestination(id, userID, HasRole(r.Context(), model.RoleAdmin), req.Content)
	if err != nil {
		return destinationError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(destination)

	return nil
}

// Delete godoc
// @Summary      Delete a destination
// @Tags         destinations
// @Security     BearerAuth
// @Param        id  path  int  true  "Destination ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/destinations/{id} [delete]
func (h *DestinationHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid destination id", err)
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.DeleteDestination(id, userID, HasRole(r.Context(), model.RoleAdmin)); err != nil {
		return destinationError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func destinationError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrDestinationNotFound):
		return common.NewAppError(http.StatusNotFound, "Destination not found", nil)
	case errors.Is(err, service.ErrNotOwner):
		return common.NewAppError(http.StatusForbidden, "Access denied", nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Could not process destination", err)
	}
}
