package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	entityStore, err := store.Open(filepath.Join(t.TempDir(), "taskboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = entityStore.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(entityStore, nil, nil, logger)
}

// fixture is one registered user with the default workspace that
// registration creates: a project, one board, three columns.
type fixture struct {
	svc       *Service
	actorID   int64
	userID    string
	projectID string
	boardID   string
	columnIDs []string
}

func newFixture(t *testing.T, svc *Service, email, firstName string) fixture {
	t.Helper()
	credential, user, err := svc.Register(Registration{
		Email:        email,
		PasswordHash: "hashed",
		FirstName:    firstName,
		LastName:     "Tester",
	})
	require.NoError(t, err)

	actorID, err := svc.ResolveActor(credential.PublicID)
	require.NoError(t, err)

	f := fixture{svc: svc, actorID: actorID, userID: user.ID}
	err = svc.store.View(func(tx *store.Tx) error {
		projects, err := tx.ProjectsByMember(actorID)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		f.projectID = projects[0].PublicID

		boards, err := tx.BoardsByProject(projects[0].ID)
		require.NoError(t, err)
		require.Len(t, boards, 1)
		f.boardID = boards[0].PublicID

		columns, err := tx.ColumnsByBoard(boards[0].ID)
		require.NoError(t, err)
		for _, column := range columns {
			f.columnIDs = append(f.columnIDs, column.PublicID)
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, f.columnIDs, 3)
	return f
}

func addressFixture() model.Address {
	return model.Address{
		Street:      "Main Street",
		HouseNumber: "12",
		City:        "Springfield",
		State:       "IL",
		ZipCode:     "62701",
		Country:     "USA",
	}
}

func (f fixture) createIssue(t *testing.T, title string) model.IssueView {
	t.Helper()
	issue, err := f.svc.CreateIssue(f.actorID, IssueCreate{
		ProjectID: f.projectID,
		Title:     title,
		Priority:  model.PriorityMedium,
		Type:      model.IssueTypeTask,
	})
	require.NoError(t, err)
	return issue
}
