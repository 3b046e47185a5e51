package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/internal/model"
)

type objectStoreStub struct {
	uploads   []string
	downloads []string
	exists    map[string]bool
}

func (o *objectStoreStub) PresignUpload(key, contentType string) (string, error) {
	o.uploads = append(o.uploads, key)
	return "https://objects.test/upload/" + key, nil
}

func (o *objectStoreStub) PresignDownload(key string) (string, error) {
	o.downloads = append(o.downloads, key)
	return "https://objects.test/download/" + key, nil
}

func (o *objectStoreStub) Exists(key string) (bool, error) {
	return o.exists[key], nil
}

func newFileTestService(t *testing.T) (*Service, *objectStoreStub) {
	t.Helper()
	svc := newTestService(t)
	stub := &objectStoreStub{exists: map[string]bool{}}
	svc.objects = stub
	return svc, stub
}

func TestUploadLifecycle(t *testing.T) {
	svc, stub := newFileTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	ticket, err := svc.InitUpload(f.actorID, "report.pdf", "application/pdf")
	require.NoError(t, err)
	require.Equal(t, "report.pdf", ticket.File.Filename)
	require.Equal(t, model.FileStatusPending, ticket.File.Status)
	require.Len(t, stub.uploads, 1)

	// Completing before the object exists is rejected.
	_, err = svc.CompleteUpload(f.actorID, ticket.File.ID)
	require.Error(t, err)
	require.Equal(t, CodeInvalidState, CodeOf(err))

	stub.exists[stub.uploads[0]] = true
	file, err := svc.CompleteUpload(f.actorID, ticket.File.ID)
	require.NoError(t, err)
	require.Equal(t, model.FileStatusUploaded, file.Status)

	url, err := svc.DownloadURL(ticket.File.ID)
	require.NoError(t, err)
	require.Contains(t, url, stub.uploads[0])
}

func TestCompleteUploadUploaderOnly(t *testing.T) {
	svc, stub := newFileTestService(t)
	alice := newFixture(t, svc, "alice@example.com", "Alice")
	bob := newFixture(t, svc, "bob@example.com", "Bob")

	ticket, err := svc.InitUpload(alice.actorID, "secret.txt", "text/plain")
	require.NoError(t, err)
	stub.exists[stub.uploads[0]] = true

	_, err = svc.CompleteUpload(bob.actorID, ticket.File.ID)
	require.Error(t, err)
	require.Equal(t, CodeForbidden, CodeOf(err))
}

func TestDownloadURLRequiresUploadedFile(t *testing.T) {
	svc, _ := newFileTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	ticket, err := svc.InitUpload(f.actorID, "pending.bin", "")
	require.NoError(t, err)

	_, err = svc.DownloadURL(ticket.File.ID)
	require.Error(t, err)
	require.Equal(t, CodeInvalidState, CodeOf(err))
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":         "report.pdf",
		"../../etc/passwd":   "etc-passwd",
		"dir/sub\\file.txt":  "dir-sub-file.txt",
		"..hidden":           "hidden",
		"  spaced.txt  ":     "spaced.txt",
		"ctl\x00\x1fname.go": "ctlname.go",
	}
	for input, want := range cases {
		require.Equal(t, want, sanitizeFilename(input), "input %q", input)
	}
}
