package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RedirectMiddleware maps retired URL shapes onto the current routes.
func RedirectMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// The random joke used to live on its own path; it is part of
		// the jokes page now.
		redirects := map[string]string{
			"/jokes/random": "/jokes",
			"/joke/":        "/jokes/",
		}

		path := c.Request.URL.Path
		for from, to := range redirects {
			if strings.HasPrefix(path, from) {
				newPath := to + path[len(from):]

				c.Redirect(http.StatusMovedPermanently, newPath)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
