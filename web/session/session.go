// Package session manages the signed login cookie. The cookie carries just
// the authenticated user's id; gorilla/securecookie signs it and enforces
// the max age, so absence, tampering and expiry all read back as "no
// session".
package session

import (
	"errors"
	"net/http"
	"net/url"

	"rjokes/config"
	"rjokes/database"
	"rjokes/database/model"
	"rjokes/web/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie presented to the client.
const CookieName = "RJ_session"

// MaxAge is the session lifetime in seconds.
const MaxAge = 30 * 24 * 60 * 60

const userIdKey = "userId"

// ErrStale marks a cookie with a valid signature whose user no longer
// exists. The caller must treat it as a forced logout and redirect to the
// login page; the session itself has already been cleared.
var ErrStale = errors.New("session references a missing user")

var userService service.UserService

// DefaultOptions returns the cookie options every session is issued with.
func DefaultOptions() sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.IsProduction(),
	}
}

// SetLoginUser issues a session for the given user id. This is the only
// place a session is created.
func SetLoginUser(c *gin.Context, userId int) error {
	s := sessions.Default(c)
	s.Set(userIdKey, userId)
	s.Options(DefaultOptions())
	return s.Save()
}

// GetUserId returns the authenticated user's id, or false for anonymous
// requests. Tampered or expired cookies are indistinguishable from absent
// ones.
func GetUserId(c *gin.Context) (int, bool) {
	s := sessions.Default(c)
	if obj := s.Get(userIdKey); obj != nil {
		if id, ok := obj.(int); ok && id > 0 {
			return id, true
		}
	}
	return 0, false
}

// RequireUserId returns the user id, or ok=false meaning the caller must
// redirect to LoginURL(redirectTo). An empty redirectTo preserves the
// current request path as the return target.
func RequireUserId(c *gin.Context, redirectTo string) (int, bool) {
	if id, ok := GetUserId(c); ok {
		return id, true
	}
	if redirectTo == "" {
		redirectTo = c.Request.URL.Path
	}
	c.Redirect(http.StatusFound, LoginURL(redirectTo))
	return 0, false
}

// LoginURL builds the login redirect target carrying the return path.
func LoginURL(redirectTo string) string {
	if redirectTo == "" {
		redirectTo = "/"
	}
	params := url.Values{"redirectTo": {redirectTo}}
	return "/login?" + params.Encode()
}

// GetUser resolves the session to its user. Anonymous requests return
// (nil, nil). A valid cookie pointing at a vanished user clears the
// session and returns ErrStale.
func GetUser(c *gin.Context) (*model.UserInfo, error) {
	id, ok := GetUserId(c)
	if !ok {
		return nil, nil
	}

	user, err := userService.FindById(id)
	if database.IsNotFound(err) {
		_ = ClearSession(c)
		return nil, ErrStale
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// ClearSession destroys the session cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie(CookieName, "", -1, "/", "", config.IsProduction(), true)
	return nil
}
