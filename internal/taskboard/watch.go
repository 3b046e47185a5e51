package taskboard

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildWebsocketURL derives the event stream endpoint from the API base
// URL. A project filter limits the stream to one project; a board filter
// narrows it to that board's layout events.
func BuildWebsocketURL(serverURL, project, board string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid server url")
	}

	wsScheme := "ws"
	if parsed.Scheme == "https" {
		wsScheme = "wss"
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("server url must start with http:// or https://")
	}

	wsURL := &url.URL{
		Scheme: wsScheme,
		Host:   parsed.Host,
		Path:   "/ws",
	}

	q := wsURL.Query()
	if value := strings.TrimSpace(project); value != "" {
		q.Set("project", value)
	}
	if value := strings.TrimSpace(board); value != "" {
		q.Set("board", value)
	}
	wsURL.RawQuery = q.Encode()

	return wsURL.String(), nil
}
