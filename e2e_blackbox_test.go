package backend_test

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"
)

func TestE2EBlackBoxServerProcess(t *testing.T) {
	dataDir := t.TempDir()
	sqlitePath := filepath.Join(dataDir, "taskboard.db")
	objectsDir := filepath.Join(dataDir, "objects")
	binaryPath := filepath.Join(t.TempDir(), "taskboard")

	build := exec.Command("go", "build", "-o", binaryPath, "./cmd/taskboard")
	build.Dir = "."
	buildOut, err := build.CombinedOutput()
	require.NoError(t, err, string(buildOut))

	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cmd := exec.CommandContext(ctx, binaryPath, "serve", "--addr", addr, "--sqlite-path", sqlitePath, "--objects-dir", objectsDir)
	stdoutPipe, err := cmd.StdoutPipe()
	require.NoError(t, err)
	stderrPipe, err := cmd.StderrPipe()
	require.NoError(t, err)
	var streamWG sync.WaitGroup
	streamReaderToTestLogs(t, "backend stdout", stdoutPipe, &streamWG)
	streamReaderToTestLogs(t, "backend stderr", stderrPipe, &streamWG)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		cancel()
		_ = cmd.Wait()
		streamWG.Wait()
	})

	baseURL := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)

	register := doAuthedJSONRequest(t, baseURL+"/auth/register", http.MethodPost, "", map[string]string{
		"email":      "blackbox@example.com",
		"password":   "password123",
		"first_name": "Black",
		"last_name":  "Box",
	})
	require.Equal(t, http.StatusCreated, register.StatusCode)
	token := decodeBodyMap(t, register.Body)["token"].(string)
	require.NotEmpty(t, token)

	createProject := doAuthedJSONRequest(t, baseURL+"/projects", http.MethodPost, token, map[string]string{
		"name": "Blackbox",
	})
	require.Equal(t, http.StatusCreated, createProject.StatusCode)
	projectID := decodeBodyMap(t, createProject.Body)["id"].(string)

	createBoard := doAuthedJSONRequest(t, baseURL+"/project-boards", http.MethodPost, token, map[string]string{
		"project_id": projectID,
		"name":       "Process Board",
	})
	require.Equal(t, http.StatusCreated, createBoard.StatusCode)
	boardID := decodeBodyMap(t, createBoard.Body)["id"].(string)

	createColumn := doAuthedJSONRequest(t, baseURL+"/project-board-columns", http.MethodPost, token, map[string]any{
		"project_board_id": boardID,
		"name":             "Inbox",
		"position":         1,
	})
	require.Equal(t, http.StatusCreated, createColumn.StatusCode)
	columnID := decodeBodyMap(t, createColumn.Body)["id"].(string)

	createIssue := doAuthedJSONRequest(t, baseURL+"/issues", http.MethodPost, token, map[string]string{
		"project_id": projectID,
		"title":      "exercise the real process",
		"priority":   "high",
		"type":       "STORY",
	})
	require.Equal(t, http.StatusCreated, createIssue.StatusCode)
	issueID := decodeBodyMap(t, createIssue.Body)["id"].(string)

	place := doAuthedJSONRequest(t, baseURL+"/project-board-column-items", http.MethodPost, token, map[string]any{
		"issue_id":                issueID,
		"project_board_column_id": columnID,
	})
	require.Equal(t, http.StatusCreated, place.StatusCode)

	getBoard := doAuthedJSONRequest(t, baseURL+"/project-boards/"+boardID, http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, getBoard.StatusCode)
	board := decodeBodyMap(t, getBoard.Body)
	columns := board["columns"].([]any)
	require.Len(t, columns, 1)
	items := columns[0].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "exercise the real process", items[0].(map[string]any)["title"])

	db, err := sql.Open("sqlite", sqlitePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var count int
	err = db.QueryRow(`SELECT count(*) FROM issues WHERE public_id = ?`, issueID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func streamReaderToTestLogs(t *testing.T, label string, reader io.Reader, wg *sync.WaitGroup) {
	t.Helper()
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(reader)
		for scanner.Scan() {
			t.Logf("%s: %s", label, scanner.Text())
		}
	}()
}

func doAuthedJSONRequest(t *testing.T, url, method, token string, payload any) *http.Response {
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

func decodeBodyMap(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var out map[string]any
	err = json.Unmarshal(raw, &out)
	require.NoError(t, err, string(raw))
	return out
}
