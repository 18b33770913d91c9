package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestForwardSubmission_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("payload not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Form submitted successfully"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	err := c.ForwardSubmission(context.Background(), map[string]any{
		"name":  "Jo Lee",
		"email": "jo@example.com",
	})
	if err != nil {
		t.Fatalf("ForwardSubmission: %v", err)
	}
	if got["name"] != "Jo Lee" {
		t.Fatalf("forwarded payload = %v", got)
	}
}

func TestForwardSubmission_DownstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"storage not configured"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	if err := c.ForwardSubmission(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error on success=false reply")
	}
}

func TestForwardSubmission_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	if err := c.ForwardSubmission(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestForward_ToleratesNonJSON2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	if err := c.ForwardSubmission(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("plain-text 200 should not error: %v", err)
	}
}

func TestForwardUnsubscribe_SetsAction(t *testing.T) {
	var got UnsubscribeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	err := c.ForwardUnsubscribe(context.Background(), UnsubscribeRequest{
		Email: "jo@example.com",
		Token: "tok",
	})
	if err != nil {
		t.Fatalf("ForwardUnsubscribe: %v", err)
	}
	if got.Action != "unsubscribe" || got.Email != "jo@example.com" {
		t.Fatalf("forwarded payload = %+v", got)
	}
}

func TestForward_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed on purpose

	c := NewHTTPClient(srv.URL, nil)
	if err := c.ForwardSubmission(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected transport error")
	}
}
