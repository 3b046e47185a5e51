package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "taskboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type workspace struct {
	profileID int64
	projectID int64
	boardID   int64
	columnIDs []int64
}

func seedWorkspace(t *testing.T, s *Store) workspace {
	t.Helper()
	var ws workspace
	err := s.Update(func(tx *Tx) error {
		credential, err := tx.CreateCredential("alice@example.com", "hashed")
		require.NoError(t, err)
		profile, err := tx.CreateProfile(model.Profile{CredentialID: credential.ID, FirstName: "Alice", LastName: "Tester"})
		require.NoError(t, err)
		ws.profileID = profile.ID

		project, err := tx.CreateProject("Alpha", "")
		require.NoError(t, err)
		require.NoError(t, tx.AddProjectMember(project.ID, profile.ID))
		ws.projectID = project.ID

		board, err := tx.CreateBoard(project.ID, "Main", "")
		require.NoError(t, err)
		ws.boardID = board.ID

		for i, name := range []string{"To Do", "In Progress", "Done"} {
			column, err := tx.CreateColumn(board.ID, name, "", i+1)
			require.NoError(t, err)
			ws.columnIDs = append(ws.columnIDs, column.ID)
		}
		return nil
	})
	require.NoError(t, err)
	return ws
}

func createIssue(t *testing.T, s *Store, ws workspace, title string) model.Issue {
	t.Helper()
	var issue model.Issue
	err := s.Update(func(tx *Tx) error {
		var err error
		issue, err = tx.CreateIssue(model.Issue{
			ProjectID:   ws.projectID,
			Title:       title,
			Priority:    model.PriorityMedium,
			Type:        model.IssueTypeTask,
			CreatedByID: ws.profileID,
		})
		return err
	})
	require.NoError(t, err)
	return issue
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	boom := errors.New("boom")

	err := s.Update(func(tx *Tx) error {
		_, err := tx.CreateProject("Ghost", "")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.View(func(tx *Tx) error {
		_, err := tx.ProjectByID(1)
		require.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestColumnsSortByPositionThenID(t *testing.T) {
	s := openTestStore(t)
	ws := seedWorkspace(t, s)

	err := s.Update(func(tx *Tx) error {
		// Two extra columns sharing a position with an existing one.
		_, err := tx.CreateColumn(ws.boardID, "Tie A", "", 2)
		require.NoError(t, err)
		_, err = tx.CreateColumn(ws.boardID, "Tie B", "", 2)
		return err
	})
	require.NoError(t, err)

	err = s.View(func(tx *Tx) error {
		columns, err := tx.ColumnsByBoard(ws.boardID)
		require.NoError(t, err)
		names := make([]string, 0, len(columns))
		for _, c := range columns {
			names = append(names, c.Name)
		}
		require.Equal(t, []string{"To Do", "In Progress", "Tie A", "Tie B", "Done"}, names)
		return nil
	})
	require.NoError(t, err)
}

func TestDuplicatePlacementSurfacesSentinel(t *testing.T) {
	s := openTestStore(t)
	ws := seedWorkspace(t, s)
	issue := createIssue(t, s, ws, "Placed once")

	err := s.Update(func(tx *Tx) error {
		_, err := tx.CreateItem(ws.columnIDs[0], issue.ID, 1)
		require.NoError(t, err)
		_, err = tx.CreateItem(ws.columnIDs[1], issue.ID, 1)
		require.ErrorIs(t, err, ErrDuplicatePlacement)
		return nil
	})
	require.NoError(t, err)
}

func TestMaxItemPositionEmptyColumn(t *testing.T) {
	s := openTestStore(t)
	ws := seedWorkspace(t, s)

	err := s.View(func(tx *Tx) error {
		max, err := tx.MaxItemPosition(ws.columnIDs[0])
		require.NoError(t, err)
		require.Zero(t, max)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteIssueCascadesPlacement(t *testing.T) {
	s := openTestStore(t)
	ws := seedWorkspace(t, s)
	issue := createIssue(t, s, ws, "Short-lived")

	err := s.Update(func(tx *Tx) error {
		_, err := tx.CreateItem(ws.columnIDs[0], issue.ID, 1)
		require.NoError(t, err)
		return tx.DeleteIssue(issue.ID)
	})
	require.NoError(t, err)

	err = s.View(func(tx *Tx) error {
		_, err := tx.ItemByIssueID(issue.ID)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = tx.IssueByID(issue.ID)
		require.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteIssueUnlinksChildren(t *testing.T) {
	s := openTestStore(t)
	ws := seedWorkspace(t, s)
	parent := createIssue(t, s, ws, "Parent")
	child := createIssue(t, s, ws, "Child")

	err := s.Update(func(tx *Tx) error {
		child.ParentID.Int64 = parent.ID
		child.ParentID.Valid = true
		_, err := tx.UpdateIssue(child)
		require.NoError(t, err)
		return tx.DeleteIssue(parent.ID)
	})
	require.NoError(t, err)

	err = s.View(func(tx *Tx) error {
		reloaded, err := tx.IssueByID(child.ID)
		require.NoError(t, err)
		require.False(t, reloaded.ParentID.Valid)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateCredentialDuplicateEmail(t *testing.T) {
	s := openTestStore(t)

	err := s.Update(func(tx *Tx) error {
		_, err := tx.CreateCredential("dup@example.com", "x")
		return err
	})
	require.NoError(t, err)

	err = s.Update(func(tx *Tx) error {
		_, err := tx.CreateCredential("dup@example.com", "y")
		return err
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestViewNeverPersists(t *testing.T) {
	s := openTestStore(t)

	err := s.View(func(tx *Tx) error {
		_, err := tx.CreateProject("Phantom", "")
		return err
	})
	require.NoError(t, err)

	err = s.View(func(tx *Tx) error {
		_, err := tx.ProjectByID(1)
		require.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}
