package httpserver

import (
	"net/http"
	"time"
)

// New builds the server the mandate API listens on. The header timeout
// bounds slow clients; request deadlines come from the router middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
