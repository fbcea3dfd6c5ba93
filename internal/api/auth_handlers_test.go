package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptbox/promptbox/internal/auth"
	"github.com/promptbox/promptbox/internal/web"
)

func TestAnonymousIndexRedirectsToLogin(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2F", w.Header().Get("Location"))
}

func TestAnonymousMutationsRedirectToLogin(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for _, path := range []string{"/create", "/update", "/delete"} {
		w := ts.do(t, formRequest(path, url.Values{"title": {"x"}, "prompt": {"y"}}))
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Contains(t, w.Header().Get("Location"), "/login?next=")
	}
	assert.Empty(t, dirEntries(t, ts.promptsDir))
}

func TestLoginPage(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, httptest.NewRequest(http.MethodGet, "/login?next=%2F%3Ftag%3Dcode", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)
	assert.Contains(t, w.Body.String(), `value="/?tag=code"`)
}

func TestLogin_CorrectPassword(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, formRequest("/login", url.Values{"password": {testPassword}, "next": {"/"}}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)

	// The cookie opens the index and is refreshed on the way.
	w = ts.do(t, httptest.NewRequest(http.MethodGet, "/", nil), c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign out")
	assert.NotNil(t, sessionCookie(w))
}

func TestLogin_SecureCookie(t *testing.T) {
	ts := setupTestServer(t, Options{CookieSecure: true})

	c := ts.login(t)
	assert.True(t, c.Secure)
}

func TestLogin_HashedPassword(t *testing.T) {
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	ts := setupTestServer(t, Options{Password: hash})

	w := ts.do(t, formRequest("/login", url.Values{"password": {testPassword}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotNil(t, sessionCookie(w))
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t, Options{})

	w := ts.do(t, formRequest("/login", url.Values{"password": {"nope"}, "next": {"/"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), web.LoginFailedMessage)
	assert.Nil(t, sessionCookie(w))
}

func TestLogin_ExternalNextIgnored(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for _, next := range []string{"//evil.example", "https://evil.example/", "/\\evil.example"} {
		w := ts.do(t, formRequest("/login", url.Values{"password": {testPassword}, "next": {next}}))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"), next)
	}

	w := ts.do(t, formRequest("/login", url.Values{"password": {testPassword}, "next": {"/?tag=code"}}))
	assert.Equal(t, "/?tag=code", w.Header().Get("Location"))
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for range 5 {
		w := ts.do(t, formRequest("/login", url.Values{"password": {"wrong"}}))
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Even the right password is refused once the limit is hit.
	w := ts.do(t, formRequest("/login", url.Values{"password": {testPassword}}))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many attempts")
	assert.Nil(t, sessionCookie(w))

	// Other clients are unaffected.
	req := formRequest("/login", url.Values{"password": {testPassword}})
	req.Header.Set("X-Real-IP", "198.51.100.9")
	w = ts.do(t, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLoginPage_AuthenticatedRedirects(t *testing.T) {
	ts := setupTestServer(t, Options{})
	c := ts.login(t)

	w := ts.do(t, httptest.NewRequest(http.MethodGet, "/login", nil), c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogin_AuthenticatedPostRedirects(t *testing.T) {
	ts := setupTestServer(t, Options{})
	c := ts.login(t)

	w := ts.do(t, formRequest("/login", url.Values{"password": {"wrong"}, "next": {"/?tag=x"}}), c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), web.LoginFailedMessage)
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	ts := setupTestServer(t, Options{})
	c := ts.login(t)

	tampered := []byte(c.Value)
	i := len("v4.local.") + 8
	if tampered[i] == 'A' {
		tampered[i] = 'B'
	} else {
		tampered[i] = 'A'
	}

	w := ts.do(t, httptest.NewRequest(http.MethodGet, "/", nil), &http.Cookie{Name: SessionCookieName, Value: string(tampered)})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2F", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	ts := setupTestServer(t, Options{})
	c := ts.login(t)

	w := ts.do(t, httptest.NewRequest(http.MethodGet, "/logout", nil), c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
