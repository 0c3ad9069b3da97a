package mockapi

import (
	"context"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = time.Second * 5

// Server is a running mock API on a loopback port.
type Server struct {
	URL      string
	server   *http.Server
	listener net.Listener
}

// Start listens on an ephemeral loopback port and serves handler until Close is called. The
// listener is bound before Start returns, so the server accepts requests immediately.
func Start(handler http.Handler) (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second * 10,
	}
	go func() {
		_ = server.Serve(listener)
	}()
	return &Server{URL: "http://" + listener.Addr().String(), server: server, listener: listener}, nil
}

func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
