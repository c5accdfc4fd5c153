package handlers

import (
	"net/http"

	"portfolioAPI/internal/content"
)

type ProjectsHandler struct {
	projects []content.Project
}

func NewProjectsHandler(projects []content.Project) *ProjectsHandler {
	if projects == nil {
		projects = []content.Project{}
	}
	return &ProjectsHandler{projects: projects}
}

func (h *ProjectsHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"projects": h.projects,
		"count":    len(h.projects),
	})
}
