package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"autoblog-go/pkg/limiter"
)

func newTestServer() *Server {
	rl := limiter.NewRequestLimiter(limiter.DefaultConfig())
	return NewServer(nil, rl)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestStatusEndpointReportsQuota(t *testing.T) {
	s := newTestServer()

	req, _ := http.NewRequest(http.MethodGet, "/status", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	quota, ok := payload["quota"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected quota section, got %v", payload)
	}
	if quota["limit"] != float64(200) {
		t.Errorf("expected quota limit 200, got %v", quota["limit"])
	}
}
