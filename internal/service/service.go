package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

type Publisher interface {
	Publish(event model.Event)
}

// ObjectStore is the object-storage boundary. The real client lives outside
// this module; the service only asks for URLs and existence.
type ObjectStore interface {
	PresignUpload(key, contentType string) (string, error)
	PresignDownload(key string) (string, error)
	Exists(key string) (bool, error)
}

type Service struct {
	store     *store.Store
	objects   ObjectStore
	publisher Publisher
	logger    *slog.Logger
}

func New(entityStore *store.Store, objects ObjectStore, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     entityStore,
		objects:   objects,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) publish(event model.Event) {
	if s.publisher == nil {
		return
	}
	event.Project = strings.TrimSpace(event.Project)
	event.Timestamp = time.Now().UTC()
	s.publisher.Publish(event)
}

// requireProjectMember authorizes an actor against a project. The actor id
// is the internal profile id resolved by upstream middleware.
func requireProjectMember(tx *store.Tx, projectID, actorID int64) error {
	ok, err := tx.IsProjectMember(projectID, actorID)
	if err != nil {
		return newError(CodeInternal, "membership lookup failed", err)
	}
	if !ok {
		return newError(CodeForbidden, "not a member of this project", nil)
	}
	return nil
}

// storeErr maps raw store failures that were not already classified.
func storeErr(msg string, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return newError(CodeNotFound, msg, err)
	}
	return newError(CodeInternal, msg, err)
}
