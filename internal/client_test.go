package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestClientResolvesAndCachesBaseURL(t *testing.T) {
	isolateEnv(t)

	var lookups int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&lookups, 1)
		fmt.Fprint(w, `{"assets": "assets.us.example.io"}`)
	}))
	defer srv.Close()

	s := newTestSession(t, srv.URL, WithToken("T"), WithAccountID("12345678"))
	c := s.Client("assets")

	for i := 0; i < 3; i++ {
		base, err := c.BaseURL(context.Background())
		if err != nil {
			t.Fatalf("BaseURL failed: %v", err)
		}
		if base != "https://assets.us.example.io" {
			t.Errorf("BaseURL mismatch: %s", base)
		}
	}

	if n := atomic.LoadInt32(&lookups); n != 1 {
		t.Errorf("directory lookup should be cached, got %d lookups", n)
	}
}

func TestClientURLBuilding(t *testing.T) {
	isolateEnv(t)

	s, err := NewSession(WithToken("T"), WithAccountID("12345678"))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	c := NewClient("assets", s, WithBaseURL("https://assets.example.io/"))
	u, err := c.URL(context.Background(), "12345678/deployments")
	if err != nil {
		t.Fatalf("URL failed: %v", err)
	}
	if u != "https://assets.example.io/assets/v1/12345678/deployments" {
		t.Errorf("URL mismatch: %s", u)
	}

	c2 := NewClient("assets", s, WithBaseURL("https://assets.example.io"), WithVersion("v2"))
	u2, _ := c2.URL(context.Background(), "/12345678/deployments")
	if u2 != "https://assets.example.io/assets/v2/12345678/deployments" {
		t.Errorf("versioned URL mismatch: %s", u2)
	}
}

func TestClientDoDispatchesThroughSession(t *testing.T) {
	isolateEnv(t)

	var authCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/aims/v1/authenticate":
			atomic.AddInt32(&authCalls, 1)
			fmt.Fprint(w, authBody("TOKEN123", "12345678", "Test Account"))
		case strings.HasPrefix(r.URL.Path, "/assets/v1/"):
			if got := r.Header.Get(AuthTokenHeader); got != "TOKEN123" {
				t.Errorf("service call missing token, got %q", got)
			}
			fmt.Fprint(w, `{"ok": true}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	s := newTestSession(t, srv.URL, WithAccessKey("key-id", "key-secret"))
	c := s.Client("assets", WithBaseURL(srv.URL))

	// The client authenticates lazily before dispatch even though
	// Session.Request alone never would.
	resp, err := c.Get(context.Background(), "/12345678/deployments")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	resp, err = c.Post(context.Background(), "/12345678/deployments", WithBody(strings.NewReader(`{}`)))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	resp.Body.Close()

	if n := atomic.LoadInt32(&authCalls); n != 1 {
		t.Errorf("expected a single lazy authenticate across calls, got %d", n)
	}
}

func TestClientAccessors(t *testing.T) {
	isolateEnv(t)

	s, err := NewSession(WithToken("T"))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	c := s.Client("iris", WithVersion("v3"))
	if c.Service() != "iris" {
		t.Errorf("Service mismatch: %s", c.Service())
	}
	if c.Version() != "v3" {
		t.Errorf("Version mismatch: %s", c.Version())
	}
}
