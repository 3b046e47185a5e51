package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/taskboard/backend/internal/objectstore"
	"github.com/taskboard/backend/internal/service"
	"github.com/taskboard/backend/internal/store"
)

type Options struct {
	SQLitePath   string
	ObjectsDir   string
	BaseURL      string
	ObjectSecret []byte
	Logger       *slog.Logger
}

type Server struct {
	store   *store.Store
	service *service.Service
	objects *objectstore.Local
	hub     *hub
	logger  *slog.Logger
	router  *chi.Mux
	api     huma.API
}

func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entityStore, err := store.Open(opts.SQLitePath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:  entityStore,
		hub:    newHub(),
		logger: logger,
		router: chi.NewRouter(),
	}

	var objects service.ObjectStore
	if opts.ObjectsDir != "" {
		s.objects = objectstore.NewLocal(opts.ObjectsDir, opts.BaseURL, opts.ObjectSecret)
		objects = s.objects
	}
	s.service = service.New(entityStore, objects, s.hub, logger)

	s.routes()
	s.logger.Info("server initialized", "sqlite_path", opts.SQLitePath, "objects_dir", opts.ObjectsDir)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Close() error {
	s.hub.Close()
	return s.store.Close()
}

func (s *Server) routes() {
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.identityMiddleware)

	config := huma.DefaultConfig("Taskboard Backend API", "1.0.0")
	config.OpenAPIPath = "/openapi"
	config.DocsPath = ""

	s.api = humachi.New(s.router, config)
	s.registerOperations()

	// Websocket upgrade and signed object URLs stay native HTTP handlers.
	s.router.Get("/ws", s.hub.ServeWS)
	if s.objects != nil {
		s.router.Handle("/objects/*", s.objects.Handler())
	}
}

func (s *Server) registerOperations() {
	huma.Get(s.api, "/health", s.health)

	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		DefaultStatus: http.StatusCreated,
		Summary:       "Register user",
		Errors:        []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError},
	}, s.registerUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.login)

	huma.Register(s.api, huma.Operation{
		OperationID: "currentUser",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Get current user",
		Errors:      []int{http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.currentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/users/me",
		Summary:     "Update current user profile",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.updateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/users/{user}",
		Summary:     "Get user",
		Errors:      []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.getUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserIssues",
		Method:      http.MethodGet,
		Path:        "/users/{user}/issues",
		Summary:     "List issues a user created or is assigned to",
		Errors:      []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.listUserIssues)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserHistory",
		Method:      http.MethodGet,
		Path:        "/users/{user}/history",
		Summary:     "List issue changes a user authored",
		Errors:      []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.listUserHistory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProject",
		Method:        http.MethodPost,
		Path:          "/projects",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create project",
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.createProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProject",
		Method:      http.MethodGet,
		Path:        "/projects/{project}",
		Summary:     "Get project",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.getProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "listProjectIssues",
		Method:      http.MethodGet,
		Path:        "/projects/{project}/issues",
		Summary:     "List project issues",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.listProjectIssues)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProjectBoard",
		Method:        http.MethodPost,
		Path:          "/project-boards",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create project board",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProjectBoard",
		Method:      http.MethodGet,
		Path:        "/project-boards/{board}",
		Summary:     "Get project board with columns and items",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.getBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderProjectBoard",
		Method:      http.MethodPatch,
		Path:        "/project-boards/{board}",
		Summary:     "Reorder board columns and items",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.reorderBoard)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBoardColumn",
		Method:        http.MethodPost,
		Path:          "/project-board-columns",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create board column",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createColumn)

	huma.Register(s.api, huma.Operation{
		OperationID:   "placeIssue",
		Method:        http.MethodPost,
		Path:          "/project-board-column-items",
		DefaultStatus: http.StatusCreated,
		Summary:       "Place issue on a board column",
		Errors:        []int{http.StatusBadRequest, http.StatusConflict, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.placeIssue)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveBoardItem",
		Method:      http.MethodPatch,
		Path:        "/project-board-column-items/{item}",
		Summary:     "Move board item",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.moveItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBoardItem",
		Method:      http.MethodDelete,
		Path:        "/project-board-column-items/{item}",
		Summary:     "Remove board item",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.removeItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIssueStatus",
		Method:      http.MethodGet,
		Path:        "/issue-status/{issue}",
		Summary:     "Get issue status options",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.getIssueStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "changeIssueStatus",
		Method:      http.MethodPatch,
		Path:        "/issue-status/{issue}",
		Summary:     "Change issue status",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.changeIssueStatus)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createIssue",
		Method:        http.MethodPost,
		Path:          "/issues",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create issue",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createIssue)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIssue",
		Method:      http.MethodGet,
		Path:        "/issues/{issue}",
		Summary:     "Get issue",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.getIssue)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateIssue",
		Method:      http.MethodPatch,
		Path:        "/issues/{issue}",
		Summary:     "Update issue",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.updateIssue)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteIssue",
		Method:      http.MethodDelete,
		Path:        "/issues/{issue}",
		Summary:     "Delete issue",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.deleteIssue)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIssueHistory",
		Method:      http.MethodGet,
		Path:        "/issues/{issue}/history",
		Summary:     "Get issue change history",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.getIssueHistory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createComment",
		Method:        http.MethodPost,
		Path:          "/issue-comments",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create issue comment",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "getComment",
		Method:      http.MethodGet,
		Path:        "/issue-comments/{comment}",
		Summary:     "Get issue comment",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.getComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComment",
		Method:      http.MethodPatch,
		Path:        "/issue-comments/{comment}",
		Summary:     "Update issue comment",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.updateComment)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createLabel",
		Method:        http.MethodPost,
		Path:          "/issue-labels",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create issue label",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "listProjectLabels",
		Method:      http.MethodGet,
		Path:        "/projects/{project}/issue-labels",
		Summary:     "List project labels",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.listProjectLabels)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTeam",
		Method:        http.MethodPost,
		Path:          "/teams",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create team",
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.createTeam)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTeam",
		Method:      http.MethodGet,
		Path:        "/teams/{team}",
		Summary:     "Get team",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.getTeam)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTeam",
		Method:      http.MethodPatch,
		Path:        "/teams/{team}",
		Summary:     "Update team",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.updateTeam)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createAddress",
		Method:        http.MethodPost,
		Path:          "/addresses",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create address",
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.createAddress)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAddress",
		Method:      http.MethodGet,
		Path:        "/addresses/{address}",
		Summary:     "Get address",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.getAddress)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAddress",
		Method:      http.MethodPatch,
		Path:        "/addresses/{address}",
		Summary:     "Update address",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.updateAddress)

	huma.Register(s.api, huma.Operation{
		OperationID:   "initFileUpload",
		Method:        http.MethodPost,
		Path:          "/files/init",
		DefaultStatus: http.StatusCreated,
		Summary:       "Initialize file upload",
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, s.initFileUpload)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeFileUpload",
		Method:      http.MethodPost,
		Path:        "/files/{file}/complete",
		Summary:     "Complete file upload",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError},
	}, s.completeFileUpload)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFile",
		Method:      http.MethodGet,
		Path:        "/files/{file}",
		Summary:     "Get file download URL",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.getFile)
}

type healthOutput struct {
	Body struct {
		Ok bool `json:"ok"`
	}
}

func (s *Server) health(_ context.Context, _ *struct{}) (*healthOutput, error) {
	out := &healthOutput{}
	out.Body.Ok = true
	return out, nil
}
