package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transportqa/suite/internal/config"
)

// DefaultShutdownTimeout bounds how long in-flight requests may take after a stop.
const DefaultShutdownTimeout = 30 * time.Second

// ServerDependencies holds everything the fixture server needs
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	App          http.Handler
}

// RunServe serves the fixture app until SIGINT or SIGTERM
func RunServe(deps ServerDependencies) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, deps, DefaultShutdownTimeout)
}

// Serve starts the server and blocks until ctx is done, then shuts it down.
func Serve(ctx context.Context, deps ServerDependencies, shutdownTimeout time.Duration) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	<-ctx.Done()
	log.Printf("[fixtureapp] Stopping: %v", context.Cause(ctx))
	return Shutdown(server, shutdownTimeout)
}

// StartServer listens on the configured port and serves deps.App in the background.
// Port "0" picks a free port; read it back with BaseURL.
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	if deps.App == nil {
		return nil, nil, fmt.Errorf("no application handler configured")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(deps.ServerConfig.Host, deps.ServerConfig.Port))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           deps.App,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[fixtureapp] Listening on %s", BaseURL(listener))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[fixtureapp] Server error: %v", err)
		}
	}()

	return listener, server, nil
}

// BaseURL is the http URL a browser on this machine uses to reach listener.
func BaseURL(listener net.Listener) string {
	addr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return "http://" + listener.Addr().String()
	}
	host := "127.0.0.1"
	if addr.IP != nil && !addr.IP.IsUnspecified() {
		host = addr.IP.String()
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprint(addr.Port))
}

// Shutdown lets in-flight requests finish within timeout, then closes the server.
func Shutdown(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[fixtureapp] Graceful shutdown failed: %v", err)
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server: %w", err)
		}
	}

	log.Println("[fixtureapp] Server stopped")
	return nil
}
