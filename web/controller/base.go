// Package controller provides the HTTP handlers for the jokes app: the
// login/registration screen, the joke pages, and the authenticated
// submission flow.
package controller

import (
	"net/http"

	"rjokes/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers,
// including the login gate.
type BaseController struct{}

// checkLogin verifies the session and bounces anonymous requests to the
// login page, preserving the requested path as the return target.
func (a *BaseController) checkLogin(c *gin.Context) {
	if isAjax(c) {
		if _, ok := session.GetUserId(c); !ok {
			pureJsonMsg(c, http.StatusUnauthorized, false, "You must be logged in to do that")
			c.Abort()
			return
		}
		c.Next()
		return
	}
	if _, ok := session.RequireUserId(c, ""); !ok {
		c.Abort()
		return
	}
	c.Next()
}
