package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"testing"

	"rjokes/database"

	"rjokes/web/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	store.Options(DefaultOptions())
	r.Use(sessions.Sessions(CookieName, store))

	r.POST("/session/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		if err := SetLoginUser(c, id); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		if id, ok := GetUserId(c); ok {
			c.String(http.StatusOK, strconv.Itoa(id))
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/protected", func(c *gin.Context) {
		id, ok := RequireUserId(c, "/jokes/new")
		if !ok {
			return
		}
		c.String(http.StatusOK, strconv.Itoa(id))
	})
	r.GET("/user", func(c *gin.Context) {
		user, err := GetUser(c)
		if err == ErrStale {
			c.String(http.StatusOK, "stale")
			return
		} else if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		if user == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.Username)
	})
	r.POST("/logout", func(c *gin.Context) {
		if err := ClearSession(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Result().Cookies() {
		if ck.Name == CookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	r := newTestRouter()

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/42", nil)
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNoContent, resp.Code)

	ck := sessionCookie(t, resp)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, MaxAge, ck.MaxAge)

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(ck)
	r.ServeHTTP(resp, req)
	assert.Equal(t, "42", resp.Body.String())
}

func TestMissingAndTamperedCookie(t *testing.T) {
	r := newTestRouter()

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(resp, req)
	assert.Equal(t, "anonymous", resp.Body.String())

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-real-session"})
	r.ServeHTTP(resp, req)
	assert.Equal(t, "anonymous", resp.Body.String())
}

func TestDestroySession(t *testing.T) {
	r := newTestRouter()

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/42", nil)
	r.ServeHTTP(resp, req)
	ck := sessionCookie(t, resp)

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(ck)
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNoContent, resp.Code)

	// The replacement cookie must be expired.
	var cleared *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == CookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cleared)
	r.ServeHTTP(resp, req)
	assert.Equal(t, "anonymous", resp.Body.String())
}

func TestRequireUserIdRedirects(t *testing.T) {
	r := newTestRouter()

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusFound, resp.Code)
	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/jokes/new", loc.Query().Get("redirectTo"))
}

func TestGetUserStaleSession(t *testing.T) {
	os.Remove("test.db")
	require.NoError(t, database.InitDB("test.db"))
	defer func() {
		database.CloseDB()
		os.Remove("test.db")
	}()

	r := newTestRouter()

	users := service.UserService{}
	user, err := users.Register("alice", "secret1")
	require.NoError(t, err)

	// A session for an existing user resolves to that user.
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/"+strconv.Itoa(user.Id), nil)
	r.ServeHTTP(resp, req)
	ck := sessionCookie(t, resp)

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(ck)
	r.ServeHTTP(resp, req)
	assert.Equal(t, "alice", resp.Body.String())

	// A validly signed session naming a vanished user forces logout.
	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/session/9999", nil)
	r.ServeHTTP(resp, req)
	ck = sessionCookie(t, resp)

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(ck)
	r.ServeHTTP(resp, req)
	assert.Equal(t, "stale", resp.Body.String())

	var cleared *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == CookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}
