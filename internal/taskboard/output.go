package taskboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type Output string

const (
	OutputText Output = "text"
	OutputJSON Output = "json"
)

type cliError struct {
	status  int
	message string
}

func (e *cliError) Error() string {
	return e.message
}

func isValidOutput(v string) bool {
	return v == string(OutputText) || v == string(OutputJSON)
}

func FormatError(output Output, status int, message string) string {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = http.StatusText(status)
	}

	if output == OutputJSON {
		payload := map[string]any{
			"status": status,
			"error":  msg,
		}
		raw, _ := json.Marshal(payload)
		return string(raw)
	}

	return fmt.Sprintf("error (%d): %s", status, msg)
}

func asCLIError(err error, target **cliError) bool {
	e, ok := err.(*cliError)
	if !ok {
		return false
	}
	*target = e
	return true
}

func FormatWatchLine(output Output, event map[string]any) (string, error) {
	if output == OutputJSON {
		raw, err := json.Marshal(event)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	parts := make([]string, 0, 4)
	if value, ok := event["type"]; ok {
		parts = append(parts, fmt.Sprintf("type=%v", value))
	}
	if value, ok := event["project"]; ok {
		parts = append(parts, fmt.Sprintf("project=%v", value))
	}
	if value, ok := event["issue_id"]; ok && fmt.Sprintf("%v", value) != "" {
		parts = append(parts, fmt.Sprintf("issue_id=%v", value))
	}
	if value, ok := event["project_board_id"]; ok && fmt.Sprintf("%v", value) != "" {
		parts = append(parts, fmt.Sprintf("project_board_id=%v", value))
	}
	if len(parts) == 0 {
		return "(event)", nil
	}

	return strings.Join(parts, " "), nil
}
