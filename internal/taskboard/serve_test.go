package taskboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddrFromServerURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "127.0.0.1:9010", addrFromServerURL("http://127.0.0.1:9010"))
	require.Equal(t, "example.com:443", addrFromServerURL("https://example.com"))
	require.Equal(t, "example.com:80", addrFromServerURL("http://example.com"))
	require.Equal(t, defaultListenAddr, addrFromServerURL("not-a-url"))
	require.Equal(t, defaultListenAddr, addrFromServerURL(""))
}

func TestServeCommandRequiresSQLitePath(t *testing.T) {
	t.Parallel()

	cfg := Config{ServerURL: "http://127.0.0.1:19192"}
	cmd := newServeCommand(&cfg)
	cmd.SetArgs(nil)
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "--sqlite-path cannot be empty")
}
