package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/services"
)

func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, okResponse("codeide server is running"))
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	_, err := s.users.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	var verr *services.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, okResponse("User created successfully"))
	case errors.As(err, &verr):
		writeFailure(w, http.StatusOK, verr.Message)
	case errors.Is(err, common.ErrDuplicateEmail):
		writeFailure(w, http.StatusOK, "Email already exists")
	default:
		writeFailure(w, http.StatusInternalServerError, msgInternal)
	}
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	session, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	var verr *services.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{
			response: okResponse("User logged in successfully"),
			Token:    session.Token,
			UserID:   session.User.ID,
			Name:     session.User.Name,
			Username: session.User.Username,
			Email:    session.User.Email,
		})
	case errors.As(err, &verr):
		writeFailure(w, http.StatusOK, verr.Message)
	case errors.Is(err, common.ErrorUnauthorized):
		writeFailure(w, http.StatusOK, "Invalid email or password")
	default:
		writeFailure(w, http.StatusInternalServerError, msgInternal)
	}
}

func (s *HTTPServer) handleGetUserDetails(w http.ResponseWriter, r *http.Request) {
	if !decode(w, r, &struct{}{}) {
		return
	}
	actorID := actor(r)

	user, err := s.users.GetDetail(r.Context(), actorID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, userResponse{response: okResponse("User details fetched successfully"), User: user})
	case errors.Is(err, common.ErrActorNotFound):
		writeFailure(w, http.StatusOK, msgUserNotFound)
	default:
		writeFailure(w, http.StatusInternalServerError, msgInternal)
	}
}

func (s *HTTPServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decode(w, r, &req) {
		return
	}

	project, err := s.projects.Create(r.Context(), actor(r), req.Title)
	if err != nil {
		writeProjectError(w, err, http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, createProjectResponse{
		response:  okResponse("Project created successfully"),
		ProjectID: project.ID,
	})
}

func (s *HTTPServer) handleGetProjects(w http.ResponseWriter, r *http.Request) {
	if !decode(w, r, &struct{}{}) {
		return
	}

	list, err := s.projects.List(r.Context(), actor(r))
	if err != nil {
		writeProjectError(w, err, http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, projectsResponse{response: okResponse("Projects fetched successfully"), Projects: list})
}

func (s *HTTPServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjID string `json:"projId"`
	}
	if !decode(w, r, &req) {
		return
	}

	project, err := s.projects.Get(r.Context(), actor(r), req.ProjID)
	if err != nil {
		writeProjectError(w, err, http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{response: okResponse("Project fetched successfully"), Project: project})
}

func (s *HTTPServer) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjID   string  `json:"projId"`
		HTMLCode *string `json:"htmlCode"`
		CSSCode  *string `json:"cssCode"`
		JSCode   *string `json:"jsCode"`
	}
	if !decode(w, r, &req) {
		return
	}

	_, err := s.projects.Update(r.Context(), actor(r), req.ProjID, models.ProjectPatch{
		HTMLCode: req.HTMLCode,
		CSSCode:  req.CSSCode,
		JSCode:   req.JSCode,
	})
	if err != nil {
		writeProjectError(w, err, http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, okResponse("Project updated successfully"))
}

func (s *HTTPServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProgID string `json:"progId"`
	}
	if !decode(w, r, &req) {
		return
	}

	if _, err := s.projects.Delete(r.Context(), actor(r), req.ProgID); err != nil {
		writeProjectError(w, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, okResponse("Project deleted successfully"))
}

// writeProjectError renders a project operation failure. notFoundStatus is
// used for a missing actor or project.
func writeProjectError(w http.ResponseWriter, err error, notFoundStatus int) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeFailure(w, http.StatusOK, verr.Message)
	case errors.Is(err, common.ErrActorNotFound):
		writeFailure(w, notFoundStatus, msgUserNotFound)
	case errors.Is(err, common.ErrorNotFound):
		writeFailure(w, notFoundStatus, msgProjectMissing)
	case errors.Is(err, common.ErrNotOwner):
		writeFailure(w, http.StatusForbidden, msgAccessDenied)
	default:
		writeFailure(w, http.StatusInternalServerError, msgInternal)
	}
}

// actor is the verified user id; routes using it sit behind requireToken.
func actor(r *http.Request) string {
	claims, _ := ClaimsFromContext(r.Context())
	if claims == nil {
		return ""
	}
	return claims.UserID
}
