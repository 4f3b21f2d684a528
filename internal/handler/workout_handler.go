package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"notedash-server/internal/domain"
	"notedash-server/internal/middleware"
	"notedash-server/internal/service"
	"notedash-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type WorkoutHandler struct {
	service  *service.WorkoutService
	validate *validator.Validate
}

func NewWorkoutHandler(service *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	workout, err := h.service.Create(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		log.Printf("[Workouts] Create failed: %v", err)
		response.InternalError(w, "Failed to create workout")
		return
	}

	response.Created(w, workout)
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.service.List(r.Context(), middleware.GetUserID(r))
	if err != nil {
		log.Printf("[Workouts] List failed: %v", err)
		response.InternalError(w, "Failed to list workouts")
		return
	}

	response.Success(w, workouts)
}
