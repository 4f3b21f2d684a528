package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"notedash-server/internal/domain"
	"notedash-server/internal/middleware"
	"notedash-server/internal/service"
	"notedash-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type TodoHandler struct {
	service  *service.TodoService
	validate *validator.Validate
}

func NewTodoHandler(service *service.TodoService) *TodoHandler {
	return &TodoHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	todo, err := h.service.Create(r.Context(), middleware.GetUserID(r), req.Text)
	if err != nil {
		writeTodoError(w, err, "Failed to create todo")
		return
	}

	response.Created(w, todo)
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.service.List(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeTodoError(w, err, "Failed to list todos")
		return
	}

	response.Success(w, todos)
}

func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	todo, err := h.service.Toggle(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeTodoError(w, err, "Failed to update todo")
		return
	}

	response.Success(w, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		writeTodoError(w, err, "Failed to delete todo")
		return
	}

	response.Success(w, map[string]string{"message": "Todo deleted successfully"})
}

func writeTodoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		response.NotFound(w, "Todo not found")
	case errors.Is(err, service.ErrEmptyTodo):
		response.BadRequest(w, err.Error())
	default:
		log.Printf("[Todos] %s: %v", fallback, err)
		response.InternalError(w, fallback)
	}
}
