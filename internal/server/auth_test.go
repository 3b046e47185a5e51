package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAndCurrentUser(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)

	registerResp := doJSON(t, httpServer.URL+"/auth/register", http.MethodPost, "", map[string]string{
		"email":      "carol@example.com",
		"password":   "password123",
		"first_name": "Carol",
		"last_name":  "Danvers",
	})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)
	registerBody := decodeMap(t, registerResp.Body)
	require.NotEmpty(t, registerBody["token"])
	user := registerBody["user"].(map[string]any)
	require.Equal(t, "carol@example.com", user["email"])
	require.Equal(t, "Carol", user["first_name"])

	loginResp := doJSON(t, httpServer.URL+"/auth/login", http.MethodPost, "", map[string]string{
		"email":    "carol@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	loginBody := decodeMap(t, loginResp.Body)
	token := loginBody["token"].(string)
	require.Equal(t, registerBody["token"], token)

	meResp := doJSON(t, httpServer.URL+"/users/me", http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	me := decodeMap(t, meResp.Body)
	require.Equal(t, user["id"], me["id"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)
	registerTestUser(t, httpServer.URL, "dana@example.com", "Dana")

	wrongPassword := doJSON(t, httpServer.URL+"/auth/login", http.MethodPost, "", map[string]string{
		"email":    "dana@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)

	unknownEmail := doJSON(t, httpServer.URL+"/auth/login", http.MethodPost, "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)
	registerTestUser(t, httpServer.URL, "erin@example.com", "Erin")

	resp := doJSON(t, httpServer.URL+"/auth/register", http.MethodPost, "", map[string]string{
		"email":      "erin@example.com",
		"password":   "password123",
		"first_name": "Erin",
		"last_name":  "Again",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestProtectedEndpointsRequireIdentity(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t)

	anonymous := doJSON(t, httpServer.URL+"/users/me", http.MethodGet, "", nil)
	require.Equal(t, http.StatusUnauthorized, anonymous.StatusCode)

	// A token that resolves to no credential is treated the same as none.
	bogus := doJSON(t, httpServer.URL+"/users/me", http.MethodGet, "not-a-real-token", nil)
	require.Equal(t, http.StatusUnauthorized, bogus.StatusCode)
}
