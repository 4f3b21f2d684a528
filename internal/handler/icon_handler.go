package handler

import (
	"net/http"

	"notedash-server/internal/analysis"
	"notedash-server/pkg/response"
)

// ListIcons serves the icon picker options.
func ListIcons(w http.ResponseWriter, r *http.Request) {
	response.Success(w, analysis.AllIcons())
}
