package handler

import (
	"net/http"

	"notedash-server/internal/middleware"

	"github.com/gorilla/mux"
)

// Handlers bundles everything mounted under /api/v1.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Notes    *NoteHandler
	Todos    *TodoHandler
	Workouts *WorkoutHandler
}

// RegisterAPIRoutes mounts the REST API on r. Everything except the auth
// entry points requires a valid access token.
func RegisterAPIRoutes(r *mux.Router, h Handlers, validator middleware.TokenValidator) {
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", h.Auth.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/icons", ListIcons).Methods("GET", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(validator))

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods("POST", "OPTIONS")

	protected.HandleFunc("/users/me", h.Users.GetMe).Methods("GET", "OPTIONS")
	protected.HandleFunc("/users/me", h.Users.UpdateMe).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/users/me/password", h.Users.ChangePassword).Methods("PUT", "OPTIONS")

	protected.HandleFunc("/notes", h.Notes.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes", h.Notes.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/quick", h.Notes.QuickCreate).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}", h.Notes.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", h.Notes.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notes/{id}", h.Notes.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/notes/{id}/pin", h.Notes.TogglePin).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/icon", h.Notes.SetIcon).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notes/{id}/restore", h.Notes.Restore).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/purge", h.Notes.Purge).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/trash", h.Notes.EmptyTrash).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/todos", h.Todos.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/todos", h.Todos.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/todos/{id}/toggle", h.Todos.Toggle).Methods("PATCH", "OPTIONS")
	protected.HandleFunc("/todos/{id}", h.Todos.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/workouts", h.Workouts.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/workouts", h.Workouts.Create).Methods("POST", "OPTIONS")
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"notedash-server"}`))
}
