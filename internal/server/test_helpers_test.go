package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/internal/server"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	app, err := server.New(server.Options{
		SQLitePath:   filepath.Join(dir, "taskboard.db"),
		ObjectsDir:   filepath.Join(dir, "objects"),
		ObjectSecret: []byte("test-secret"),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	httpServer := httptest.NewServer(app.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer
}

func newHTTPTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)
	return httpServer
}

// doJSON issues a request with an optional bearer identity. An empty token
// leaves the request anonymous.
func doJSON(t *testing.T, url, method, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-User-Id", token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeMap(t *testing.T, reader io.Reader) map[string]any {
	t.Helper()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	var out map[string]any
	err = json.Unmarshal(data, &out)
	require.NoError(t, err)
	return out
}

func registerTestUser(t *testing.T, serverURL, email, firstName string) string {
	t.Helper()
	resp := doJSON(t, serverURL+"/auth/register", http.MethodPost, "", map[string]string{
		"email":      email,
		"password":   "password123",
		"first_name": firstName,
		"last_name":  "Tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp.Body)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

// apiWorkspace is a registered user with a project, a board, and three
// columns created through the public API.
type apiWorkspace struct {
	token     string
	projectID string
	boardID   string
	columnIDs []string
}

func newAPIWorkspace(t *testing.T, serverURL, email, firstName string) apiWorkspace {
	t.Helper()
	ws := apiWorkspace{token: registerTestUser(t, serverURL, email, firstName)}

	resp := doJSON(t, serverURL+"/projects", http.MethodPost, ws.token, map[string]string{"name": firstName + "'s Workspace"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ws.projectID = decodeMap(t, resp.Body)["id"].(string)

	resp = doJSON(t, serverURL+"/project-boards", http.MethodPost, ws.token, map[string]string{
		"project_id": ws.projectID,
		"name":       "Sprint Board",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ws.boardID = decodeMap(t, resp.Body)["id"].(string)

	for i, name := range []string{"To Do", "In Progress", "Done"} {
		resp = doJSON(t, serverURL+"/project-board-columns", http.MethodPost, ws.token, map[string]any{
			"project_board_id": ws.boardID,
			"name":             name,
			"position":         i + 1,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		ws.columnIDs = append(ws.columnIDs, decodeMap(t, resp.Body)["id"].(string))
	}
	return ws
}

func createTestIssue(t *testing.T, serverURL string, ws apiWorkspace, title string) string {
	t.Helper()
	resp := doJSON(t, serverURL+"/issues", http.MethodPost, ws.token, map[string]string{
		"project_id": ws.projectID,
		"title":      title,
		"priority":   "medium",
		"type":       "TASK",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeMap(t, resp.Body)["id"].(string)
}
