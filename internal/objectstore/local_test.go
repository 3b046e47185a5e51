package objectstore

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	return NewLocal(t.TempDir(), "", []byte("test-secret"))
}

func TestSignedURLRoundTrip(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	server := httptest.NewServer(local.Handler())
	t.Cleanup(server.Close)

	uploadURL, err := local.PresignUpload("uploads/photo.jpg", "image/jpeg")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, server.URL+uploadURL, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	exists, err := local.Exists("uploads/photo.jpg")
	require.NoError(t, err)
	require.True(t, exists)

	downloadURL, err := local.PresignDownload("uploads/photo.jpg")
	require.NoError(t, err)
	getResp, err := http.Get(server.URL + downloadURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = getResp.Body.Close() })
	require.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestUploadSignatureDoesNotAuthorizeDownload(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	server := httptest.NewServer(local.Handler())
	t.Cleanup(server.Close)

	uploadURL, err := local.PresignUpload("uploads/file.bin", "")
	require.NoError(t, err)

	// The PUT signature must not be replayable as a GET.
	resp, err := http.Get(server.URL + uploadURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestExpiredSignatureIsRejected(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	local.now = func() time.Time { return time.Now().Add(-time.Hour) }
	uploadURL, err := local.PresignUpload("uploads/stale.txt", "")
	require.NoError(t, err)
	local.now = time.Now

	server := httptest.NewServer(local.Handler())
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodPut, server.URL+uploadURL, strings.NewReader("late"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestObjectPathRejectsEscapes(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	for _, key := range []string{"../secret", "..", "/etc/passwd", "uploads/../../escape"} {
		_, err := local.objectPath(key)
		require.Errorf(t, err, "key %q should be rejected", key)
	}

	path, err := local.objectPath("uploads/nested/ok.txt")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, local.Root))
}

func TestEmptyKeyCannotBeSigned(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	_, err := local.PresignUpload("", "")
	require.Error(t, err)
}

func TestSignatureCoversExpiry(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	signedURL, err := local.PresignDownload("uploads/x.txt")
	require.NoError(t, err)

	parsed, err := url.Parse(signedURL)
	require.NoError(t, err)
	q := parsed.Query()
	q.Set("expires", "9999999999")

	err = local.verify(http.MethodGet, "uploads/x.txt", q)
	require.Error(t, err)
}
