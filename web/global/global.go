// Package global holds the process-wide web server handle so jobs and
// the signal loop in main can reach the running server.
package global

import (
	"context"
)

var webServer WebServer

type WebServer interface {
	GetCtx() context.Context
}

func SetWebServer(s WebServer) {
	webServer = s
}

func GetWebServer() WebServer {
	return webServer
}
