package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/codeide/internal/server/models"
)

const (
	msgInternal       = "Internal server error"
	msgBadRequest     = "Invalid request body"
	msgUserNotFound   = "User not found!"
	msgProjectMissing = "Project not found!"
	msgAccessDenied   = "Access denied!"
)

// maxBodyBytes bounds request bodies; project sources travel inline.
const maxBodyBytes = 5 << 20

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginResponse struct {
	response
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userResponse struct {
	response
	User *models.User `json:"user"`
}

type createProjectResponse struct {
	response
	ProjectID string `json:"projectId"`
}

type projectsResponse struct {
	response
	Projects []*models.Project `json:"projects"`
}

type projectResponse struct {
	response
	Project *models.Project `json:"project"`
}

func okResponse(msg string) response {
	return response{Success: true, Message: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Success: false, Message: msg})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeFailure(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}
