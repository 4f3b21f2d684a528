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

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.service.Create(r.Context(), middleware.GetUserID(r), req.Title, req.Description)
	if err != nil {
		writeNoteError(w, err, "Failed to create note")
		return
	}

	response.Created(w, note)
}

func (h *NoteHandler) QuickCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.QuickNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.service.QuickCreate(r.Context(), middleware.GetUserID(r), req.Text)
	if err != nil {
		writeNoteError(w, err, "Failed to create note")
		return
	}

	response.Created(w, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := domain.ListOptions{
		SortBy:    domain.SortField(query.Get("sort_by")),
		Direction: domain.SortDirection(query.Get("direction")),
		Query:     query.Get("q"),
	}
	if err := h.validate.Struct(opts); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	snapshot, err := h.service.List(r.Context(), middleware.GetUserID(r), opts)
	if err != nil {
		writeNoteError(w, err, "Failed to list notes")
		return
	}

	response.Success(w, snapshot)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeNoteError(w, err, "Failed to get note")
		return
	}

	response.Success(w, view)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.service.Edit(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"], req.Title, req.Description)
	if err != nil {
		writeNoteError(w, err, "Failed to update note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.TogglePin(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeNoteError(w, err, "Failed to pin note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) SetIcon(w http.ResponseWriter, r *http.Request) {
	var req domain.SetIconRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.service.SetIcon(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"], req.Icon)
	if err != nil {
		writeNoteError(w, err, "Failed to set icon")
		return
	}

	response.Success(w, note)
}

// Delete moves the note to the trash.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.SoftDelete(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeNoteError(w, err, "Failed to delete note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Restore(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeNoteError(w, err, "Failed to restore note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Purge(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		writeNoteError(w, err, "Failed to purge note")
		return
	}

	response.Success(w, map[string]string{"message": "Note permanently deleted"})
}

// EmptyTrash reports what was purged even when some purges failed.
func (h *NoteHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	purged, err := h.service.EmptyTrash(r.Context(), userID)
	if purged == nil && err != nil {
		writeNoteError(w, err, "Failed to empty trash")
		return
	}

	resp := domain.EmptyTrashResponse{Purged: purged}
	if err != nil {
		log.Printf("[Notes] Empty trash for %s partially failed: %v", userID, err)
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			resp.Failed = len(joined.Unwrap())
		} else {
			resp.Failed = 1
		}
	}

	response.Success(w, resp)
}

func (h *NoteHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}

func writeNoteError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		response.NotFound(w, "Note not found")
	case errors.Is(err, service.ErrEmptyDescription):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrUnknownIcon):
		response.BadRequest(w, err.Error())
	default:
		log.Printf("[Notes] %s: %v", fallback, err)
		response.InternalError(w, fallback)
	}
}
