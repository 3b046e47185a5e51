// Package objectstore provides a filesystem-backed object store with
// HMAC-signed URLs, standing in for an external blob service.
package objectstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultTTL = 15 * time.Minute

// Local keeps objects under Root and signs upload/download URLs against
// BaseURL with an HMAC secret. The signed URLs are served by Handler.
type Local struct {
	Root    string
	BaseURL string
	Secret  []byte
	TTL     time.Duration

	now func() time.Time
}

func NewLocal(root, baseURL string, secret []byte) *Local {
	return &Local{
		Root:    root,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Secret:  secret,
		TTL:     defaultTTL,
		now:     time.Now,
	}
}

func (l *Local) PresignUpload(key, contentType string) (string, error) {
	return l.signed("PUT", key)
}

func (l *Local) PresignDownload(key string) (string, error) {
	return l.signed("GET", key)
}

func (l *Local) Exists(key string) (bool, error) {
	path, err := l.objectPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *Local) signed(method, key string) (string, error) {
	if key == "" {
		return "", errors.New("objectstore: empty key")
	}
	expires := l.now().Add(l.TTL).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", l.signature(method, key, expires))
	return fmt.Sprintf("%s/objects/%s?%s", l.BaseURL, key, q.Encode()), nil
}

func (l *Local) signature(method, key string, expires int64) string {
	mac := hmac.New(sha256.New, l.Secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", method, key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func (l *Local) verify(method, key string, q url.Values) error {
	expires, err := strconv.ParseInt(q.Get("expires"), 10, 64)
	if err != nil {
		return errors.New("objectstore: malformed expiry")
	}
	if l.now().Unix() > expires {
		return errors.New("objectstore: signature expired")
	}
	want := l.signature(method, key, expires)
	if !hmac.Equal([]byte(want), []byte(q.Get("signature"))) {
		return errors.New("objectstore: invalid signature")
	}
	return nil
}

// objectPath resolves a key under Root, rejecting anything that would
// escape it.
func (l *Local) objectPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errors.New("objectstore: invalid key")
	}
	return filepath.Join(l.Root, clean), nil
}

// Handler serves the signed URLs: PUT stores the request body, GET streams
// the object back. Mount under /objects/.
func (l *Local) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/objects/")
		if err := l.verify(r.Method, key, r.URL.Query()); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		path, err := l.objectPath(key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodPut:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				http.Error(w, "store object failed", http.StatusInternalServerError)
				return
			}
			f, err := os.Create(path)
			if err != nil {
				http.Error(w, "store object failed", http.StatusInternalServerError)
				return
			}
			defer f.Close()
			if _, err := io.Copy(f, r.Body); err != nil {
				http.Error(w, "store object failed", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			http.ServeFile(w, r, path)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
