package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecondPlacementConflicts(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)
	ws := newAPIWorkspace(t, httpServer.URL, "gail@example.com", "Gail")
	issue := createTestIssue(t, httpServer.URL, ws, "Single placement")

	place := map[string]any{
		"issue_id":                issue,
		"project_board_column_id": ws.columnIDs[0],
	}
	resp := doJSON(t, httpServer.URL+"/project-board-column-items", http.MethodPost, ws.token, place)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	place["project_board_column_id"] = ws.columnIDs[1]
	resp = doJSON(t, httpServer.URL+"/project-board-column-items", http.MethodPost, ws.token, place)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUnknownIssueIsNotFound(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)
	ws := newAPIWorkspace(t, httpServer.URL, "hugh@example.com", "Hugh")

	resp := doJSON(t, httpServer.URL+"/issues/no-such-issue", http.MethodGet, ws.token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForeignProjectIsForbidden(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)
	alice := newAPIWorkspace(t, httpServer.URL, "alice2@example.com", "Alice")
	bobToken := registerTestUser(t, httpServer.URL, "bob2@example.com", "Bob")

	resp := doJSON(t, httpServer.URL+"/projects/"+alice.projectID, http.MethodGet, bobToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, httpServer.URL+"/project-boards/"+alice.boardID, http.MethodGet, bobToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIssueParentCycleIsRejected(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)
	ws := newAPIWorkspace(t, httpServer.URL, "iris@example.com", "Iris")
	parent := createTestIssue(t, httpServer.URL, ws, "Parent")
	child := createTestIssue(t, httpServer.URL, ws, "Child")

	resp := doJSON(t, httpServer.URL+"/issues/"+child, http.MethodPatch, ws.token, map[string]string{
		"parent_id": parent,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, httpServer.URL+"/issues/"+parent, http.MethodPatch, ws.token, map[string]string{
		"parent_id": child,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChangeStatusOnUnplacedIssueFails(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)
	ws := newAPIWorkspace(t, httpServer.URL, "jude@example.com", "Jude")
	issue := createTestIssue(t, httpServer.URL, ws, "Nowhere")

	resp := doJSON(t, httpServer.URL+"/issue-status/"+issue, http.MethodPatch, ws.token, map[string]string{
		"project_board_column_id": ws.columnIDs[0],
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
