package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenread/kenread/internal/service"
	"github.com/kenread/kenread/internal/store"
)

func TestRegister_ReturnsBearerTokenAndBootstrapsDocument(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")

	resp, err := http.Post(f.srv.URL+"/api/auth/register", "application/json",
		strings.NewReader(`{"login":"reader","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer signed-token", resp.Header.Get("Authorization"))
	assert.Equal(t, []int64{7}, f.docs.ensuredFor)
	assert.Equal(t, "reader", f.auth.registeredUser.Login)
}

func TestRegister_Conflict(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")
	f.auth.registerErr = store.ErrLoginAlreadyExists

	resp, err := http.Post(f.srv.URL+"/api/auth/register", "application/json",
		strings.NewReader(`{"login":"reader","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_InvalidJSON(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")

	resp, err := http.Post(f.srv.URL+"/api/auth/register", "application/json",
		strings.NewReader(`{not json`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_ReturnsBearerToken(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")

	resp, err := http.Post(f.srv.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"login":"reader","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer signed-token", resp.Header.Get("Authorization"))
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")
	f.auth.loginErr = service.ErrWrongPassword

	resp, err := http.Post(f.srv.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"login":"reader","password":"bad"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")

	resp, err := http.Get(f.srv.URL + "/api/user/bookmarks")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/api/user/bookmarks", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer expired")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTraceIDHeaderSet(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")

	resp, err := http.Post(f.srv.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"login":"reader","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestTraceIDHeaderEchoed(t *testing.T) {
	f := newHandlerFixture(t, "http://unused")

	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/api/auth/login",
		strings.NewReader(`{"login":"reader","password":"secret"}`))
	require.NoError(t, err)
	req.Header.Set("X-Trace-ID", "trace-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "trace-123", resp.Header.Get("X-Trace-ID"))
}
