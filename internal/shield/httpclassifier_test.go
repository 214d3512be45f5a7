package shield

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPClassifierNoViolation(t *testing.T) {
	var gotShield atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/safety/run-shield" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req runShieldRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotShield.Store(req.ShieldID)
		json.NewEncoder(w).Encode(runShieldResponse{})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	r, err := c.Classify(context.Background(), "prompt-guard", "benign")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	if gotShield.Load() != "prompt-guard" {
		t.Errorf("shield_id = %v", gotShield.Load())
	}
}

func TestHTTPClassifierViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"violation":{"violation_level":"high","user_message":"unsafe request"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	r, err := c.Classify(context.Background(), "prompt-guard", "bad")
	if err != nil {
		t.Fatal(err)
	}
	if r.Passed {
		t.Fatal("expected violation result")
	}
	if r.ViolationLevel != "high" || r.Message != "unsafe request" {
		t.Errorf("result = %+v", r)
	}
}

func TestHTTPClassifierRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(runShieldResponse{})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 5*time.Second)
	r, err := c.Classify(context.Background(), "prompt-guard", "text")
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if !r.Passed {
		t.Fatalf("result = %+v", r)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestHTTPClassifierClientErrorIsFinal(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	if _, err := c.Classify(context.Background(), "prompt-guard", "text"); err == nil {
		t.Fatal("expected error on 4xx")
	}
	if attempts.Load() != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 4xx)", attempts.Load())
	}
}

func TestHTTPClassifierUnreachableService(t *testing.T) {
	c := NewHTTPClassifier("http://127.0.0.1:1", 200*time.Millisecond)
	if _, err := c.Classify(context.Background(), "prompt-guard", "text"); err == nil {
		t.Fatal("expected error for unreachable service")
	}
}
