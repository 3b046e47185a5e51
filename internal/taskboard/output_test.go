package taskboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatErrorText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "error (404): issue not found", FormatError(OutputText, 404, "issue not found"))
	require.Equal(t, "error (500): Internal Server Error", FormatError(OutputText, 500, "  "))
}

func TestFormatWatchLineText(t *testing.T) {
	t.Parallel()

	line, err := FormatWatchLine(OutputText, map[string]any{
		"type":     "issue.created",
		"project":  "proj-1",
		"issue_id": "issue-9",
	})
	require.NoError(t, err)
	require.Equal(t, "type=issue.created project=proj-1 issue_id=issue-9", line)
}

func TestFormatWatchLineSkipsEmptyIDs(t *testing.T) {
	t.Parallel()

	line, err := FormatWatchLine(OutputText, map[string]any{
		"type":             "issue.status_changed",
		"project":          "proj-1",
		"issue_id":         "",
		"project_board_id": "",
	})
	require.NoError(t, err)
	require.Equal(t, "type=issue.status_changed project=proj-1", line)
}

func TestFormatWatchLineJSON(t *testing.T) {
	t.Parallel()

	line, err := FormatWatchLine(OutputJSON, map[string]any{"type": "item.moved"})
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"item.moved"}`, line)
}

func TestFormatWatchLineEmptyEvent(t *testing.T) {
	t.Parallel()

	line, err := FormatWatchLine(OutputText, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "(event)", line)
}
