// Package rest exposes the user and project use cases over JSON HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/codeide/internal/logging"
	"github.com/dmitrijs2005/codeide/internal/server/auth"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/services"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

// UserService is the account side consumed by the handlers.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*services.Session, error)
	GetDetail(ctx context.Context, userID string) (*models.User, error)
}

// ProjectService is the project side consumed by the handlers.
type ProjectService interface {
	Create(ctx context.Context, actorID, title string) (*models.Project, error)
	List(ctx context.Context, actorID string) ([]*models.Project, error)
	Get(ctx context.Context, actorID, projectID string) (*models.Project, error)
	Update(ctx context.Context, actorID, projectID string, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, actorID, projectID string) (*models.Project, error)
}

// TokenValidator verifies session tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type HTTPServer struct {
	address    string
	users      UserService
	projects   ProjectService
	tokens     TokenValidator
	corsOrigin string
	logger     logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, us UserService, ps ProjectService, tv TokenValidator, corsOrigin string) *HTTPServer {
	return &HTTPServer{
		address:    address,
		users:      us,
		projects:   ps,
		tokens:     tv,
		corsOrigin: corsOrigin,
		logger:     l.With("module", "http_server"),
	}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/signUp", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(s.requireToken)
	protected.HandleFunc("/getUserDetails", s.handleGetUserDetails).Methods(http.MethodPost)
	protected.HandleFunc("/createProject", s.handleCreateProject).Methods(http.MethodPost)
	protected.HandleFunc("/getProjects", s.handleGetProjects).Methods(http.MethodPost)
	protected.HandleFunc("/getProject", s.handleGetProject).Methods(http.MethodPost)
	protected.HandleFunc("/updateProject", s.handleUpdateProject).Methods(http.MethodPost)
	protected.HandleFunc("/deleteProject", s.handleDeleteProject).Methods(http.MethodPost)

	return s.cors(s.logRequests(r))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
