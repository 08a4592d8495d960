package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func testHTTPClient(breakerMax int) *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = breakerMax
	return NewRateLimitedHTTPClient(cfg, nil)
}

// TestClientCircuitBreakerOpens tests that repeated failures trip the breaker
func TestClientCircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testHTTPClient(2)
	defer client.Close()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.Get(ctx, server.URL); err == nil {
			t.Fatal("Expected error from failing server")
		}
	}

	_, err := client.Get(ctx, server.URL)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Errorf("Expected circuit breaker open error, got %v", err)
	}
}

// TestClientBreakerResetsOnSuccess tests that a good response clears the failure count
func TestClientBreakerResetsOnSuccess(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testHTTPClient(3)
	defer client.Close()
	ctx := context.Background()

	if _, err := client.Get(ctx, server.URL); err == nil {
		t.Fatal("Expected error from first request")
	}

	resp, err := client.Get(ctx, server.URL)
	if err != nil {
		t.Fatalf("Expected success on second request, got %v", err)
	}
	resp.Body.Close()

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.consecutiveErrors != 0 || client.isOpen {
		t.Errorf("Expected breaker reset, got %d consecutive errors, open=%v",
			client.consecutiveErrors, client.isOpen)
	}
}

// TestClientConcurrentFailures tests breaker accounting under parallel callers,
// mirroring how partition workers share one source. Run with -race.
func TestClientConcurrentFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testHTTPClient(4)
	defer client.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Get(ctx, server.URL); err == nil {
				t.Error("Expected error from failing server")
			}
		}()
	}
	wg.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	if !client.isOpen {
		t.Error("Expected circuit breaker open after concurrent failures")
	}
}
