package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/transportqa/suite/internal/config"
	"github.com/transportqa/suite/internal/fixtureapp"
)

// mockHandler creates a simple test handler
func mockHandler(response string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	})
}

// createTestDeps creates ServerDependencies bound to loopback with a mock app
func createTestDeps(port string) ServerDependencies {
	return ServerDependencies{
		ServerConfig: config.ServerConfig{Host: "127.0.0.1", Port: port},
		App:          mockHandler("app"),
	}
}

// startTestServer starts a server with the given dependencies and returns listener, server, and base URL
func startTestServer(t *testing.T, deps ServerDependencies) (net.Listener, *http.Server, string) {
	t.Helper()
	listener, server, err := StartServer(deps)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	return listener, server, BaseURL(listener)
}

// noRedirects is a client that reports redirects instead of following them
var noRedirects = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
	Timeout: 5 * time.Second,
}

// httpGet makes an HTTP GET request and returns response body and status
func httpGet(t *testing.T, url string) (string, int) {
	t.Helper()
	resp, err := noRedirects.Get(url)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode
}

func TestStartServer_SuccessfulStartup(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	listener, server, baseURL := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	if strings.HasSuffix(baseURL, ":0") {
		t.Errorf("Expected a concrete port, got %s", baseURL)
	}

	body, status := httpGet(t, baseURL+"/")
	if status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if body != "app" {
		t.Errorf("Expected 'app', got '%s'", body)
	}
}

func TestStartServer_NoApp(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")
	deps.App = nil

	// WHEN
	_, _, err := StartServer(deps)

	// THEN
	if err == nil {
		t.Error("Expected error without an app handler, got nil")
	}
}

func TestStartServer_InvalidPort(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999") // Invalid port

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for invalid port, got nil")
	}
}

func TestStartServer_PortAlreadyInUse(t *testing.T) {
	// GIVEN
	existingListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}
	defer existingListener.Close()

	port := existingListener.Addr().(*net.TCPAddr).Port
	deps := createTestDeps(fmt.Sprintf("%d", port))

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for port already in use, got nil")
	}
}

func TestStartServer_ServesFixtureApp(t *testing.T) {
	// GIVEN
	app, err := fixtureapp.New(fixtureapp.Options{})
	if err != nil {
		t.Fatalf("Failed to create fixture app: %v", err)
	}
	deps := createTestDeps("0")
	deps.App = app

	// WHEN
	listener, server, baseURL := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	testCases := []struct {
		path         string
		expectStatus int
		expectBody   string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/register", http.StatusOK, "I agree with Terms and conditions"},
		{"/login", http.StatusOK, "Password*"},
		{"/", http.StatusSeeOther, ""},
		{"/request/list", http.StatusSeeOther, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			body, status := httpGet(t, baseURL+tc.path)
			if status != tc.expectStatus {
				t.Errorf("Expected status %d, got %d", tc.expectStatus, status)
			}
			if !strings.Contains(body, tc.expectBody) {
				t.Errorf("Expected body to contain '%s'", tc.expectBody)
			}
		})
	}
}

func TestStartServer_ConcurrentServers(t *testing.T) {
	// GIVEN
	deps1 := createTestDeps("0")
	deps1.App = mockHandler("server1")

	deps2 := createTestDeps("0")
	deps2.App = mockHandler("server2")

	// WHEN
	listener1, server1, url1 := startTestServer(t, deps1)
	defer listener1.Close()
	defer server1.Close()

	listener2, server2, url2 := startTestServer(t, deps2)
	defer listener2.Close()
	defer server2.Close()

	// THEN
	if url1 == url2 {
		t.Error("Both servers got the same port")
	}
	if body, _ := httpGet(t, url1+"/"); body != "server1" {
		t.Errorf("Server 1 returned wrong response: %s", body)
	}
	if body, _ := httpGet(t, url2+"/"); body != "server2" {
		t.Errorf("Server 2 returned wrong response: %s", body)
	}
}

func TestServe_StopsWhenContextIsCancelled(t *testing.T) {
	// GIVEN
	ctx, cancel := context.WithCancelCause(context.Background())
	errCh := make(chan error, 1)

	// WHEN
	go func() {
		errCh <- Serve(ctx, createTestDeps("0"), time.Second)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel(errors.New("test finished"))

	// THEN
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_StartupFailure(t *testing.T) {
	// GIVEN
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WHEN
	err := Serve(ctx, createTestDeps("99999"), time.Second)

	// THEN
	if err == nil {
		t.Error("Expected error for invalid port, got nil")
	}
}

func TestShutdown_WaitsForActiveRequests(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")
	deps.App = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("slow"))
	})
	listener, server, baseURL := startTestServer(t, deps)
	defer listener.Close()

	responseCh := make(chan string, 1)
	go func() {
		resp, err := http.Get(baseURL + "/")
		if err != nil {
			responseCh <- "error: " + err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		responseCh <- string(body)
	}()
	time.Sleep(50 * time.Millisecond)

	// WHEN
	if err := Shutdown(server, 5*time.Second); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}

	// THEN
	select {
	case body := <-responseCh:
		if body != "slow" {
			t.Errorf("Expected in-flight request to complete, got %q", body)
		}
	case <-time.After(2 * time.Second):
		t.Error("Request did not complete in time")
	}

	if _, err := http.Get(baseURL + "/"); err == nil {
		t.Error("Expected error after shutdown, server still responding")
	}
}

func TestShutdown_TimeoutForcesClose(t *testing.T) {
	// GIVEN
	release := make(chan struct{})
	deps := createTestDeps("0")
	deps.App = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	listener, server, baseURL := startTestServer(t, deps)
	defer listener.Close()
	defer close(release)

	go http.Get(baseURL + "/")
	time.Sleep(100 * time.Millisecond)

	// WHEN
	start := time.Now()
	err := Shutdown(server, 10*time.Millisecond)

	// THEN
	if err != nil {
		t.Errorf("Expected forced close to succeed, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Shutdown took %v, expected the timeout to cut it short", elapsed)
	}
}

func TestRunServe_FullIntegration(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunServe(deps)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("Failed to get process: %v", err)
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Failed to send signal: %v", err)
	}

	// THEN
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down within timeout")
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{name: "loopback", addr: "127.0.0.1:0", want: "http://127.0.0.1:"},
		{name: "all interfaces", addr: ":0", want: "http://127.0.0.1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listener, err := net.Listen("tcp", tt.addr)
			if err != nil {
				t.Fatalf("Failed to listen: %v", err)
			}
			defer listener.Close()

			got := BaseURL(listener)
			port := listener.Addr().(*net.TCPAddr).Port
			if got != fmt.Sprintf("%s%d", tt.want, port) {
				t.Errorf("BaseURL() = %q", got)
			}
		})
	}
}

// BenchmarkStartServer benchmarks server startup
func BenchmarkStartServer(b *testing.B) {
	deps := createTestDeps("0")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		listener, server, err := StartServer(deps)
		if err != nil {
			b.Fatalf("Failed to start server: %v", err)
		}
		server.Close()
		listener.Close()
	}
}
