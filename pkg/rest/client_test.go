package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type testRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL:    srv.URL,
		Timeout:    5 * time.Second,
		RetryCount: 1,
		RetryWait:  time.Millisecond,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, zerolog.Nop())
	if !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("NewClient without base URL = %v, want ErrMissingBaseURL", err)
	}
}

func TestList(t *testing.T) {
	var gotPath, gotInclude, gotRequestID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInclude = r.URL.Query().Get("include")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode([]testRecord{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	}))

	records, err := List[testRecord](context.Background(), c, "samples", WithInclude("catalyst", "method"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(records) != 2 || records[0].Name != "a" {
		t.Errorf("List = %+v", records)
	}
	if gotPath != "/api/v1/samples" {
		t.Errorf("path = %q, want /api/v1/samples", gotPath)
	}
	if gotInclude != "catalyst,method" {
		t.Errorf("include = %q, want catalyst,method", gotInclude)
	}
	if gotRequestID == "" {
		t.Error("expected a generated X-Request-ID header")
	}
}

func TestGet_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no such experiment"}`, http.StatusNotFound)
	}))

	_, err := Get[testRecord](context.Background(), c, "experiments", 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on 404 = %v, want ErrNotFound", err)
	}
	// The error names the record so callers can print it directly.
	if got := err.Error(); got != "experiments/99: record not found" {
		t.Errorf("error text = %q", got)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"json error body", http.StatusUnprocessableEntity, `{"error":"experiment_type cannot be changed"}`, "experiment_type cannot be changed"},
		{"raw body fallback", http.StatusBadGateway, "upstream exploded", "upstream exploded"},
		{"empty body", http.StatusForbidden, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := Create[testRecord](context.Background(), c, "experiments", map[string]any{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.RequestID == "" {
				t.Error("APIError should carry the request id")
			}
		})
	}
}

func TestRetry_ReadsRetryOnce(t *testing.T) {
	var attempts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			http.Error(w, "try again", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]testRecord{{ID: 1}})
	}))

	records, err := List[testRecord](context.Background(), c, "reactors")
	if err != nil {
		t.Fatalf("List after one failure = %v, want the retry to succeed", err)
	}
	if len(records) != 1 {
		t.Errorf("List = %+v", records)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2 (one retry)", got)
	}
}

func TestRetry_ReadsGiveUpAfterRetry(t *testing.T) {
	var attempts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "still broken", http.StatusInternalServerError)
	}))

	_, err := List[testRecord](context.Background(), c, "reactors")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError after retries exhausted", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2 (retry once, then give up)", got)
	}
}

func TestRetry_MutationsNeverRetry(t *testing.T) {
	var attempts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	ctx := context.Background()
	if _, err := Create[testRecord](ctx, c, "samples", map[string]any{"name": "s"}); err == nil {
		t.Fatal("expected Create to fail")
	}
	if err := Delete(ctx, c, "samples", 1); err == nil {
		t.Fatal("expected Delete to fail")
	}

	// One POST plus one DELETE; a retried mutation could double-apply.
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2 (no mutation retries)", got)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	type exchange struct {
		method string
		path   string
		body   map[string]any
	}
	var got []exchange

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ex := exchange{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&ex.body)
		}
		got = append(got, ex)

		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_ = json.NewEncoder(w).Encode(testRecord{ID: 7, Name: "created"})
		}
	}))

	ctx := context.Background()

	created, err := Create[testRecord](ctx, c, "methods", map[string]any{"name": "sol-gel"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 7 {
		t.Errorf("Create result = %+v", created)
	}

	if _, err := Update[testRecord](ctx, c, "methods", 7, map[string]any{"name": "Sol-gel"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := Delete(ctx, c, "methods", 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := []exchange{
		{method: http.MethodPost, path: "/api/v1/methods", body: map[string]any{"name": "sol-gel"}},
		{method: http.MethodPut, path: "/api/v1/methods/7", body: map[string]any{"name": "Sol-gel"}},
		{method: http.MethodDelete, path: "/api/v1/methods/7"},
	}
	for i := range want {
		if got[i].method != want[i].method || got[i].path != want[i].path {
			t.Errorf("exchange %d = %s %s, want %s %s", i, got[i].method, got[i].path, want[i].method, want[i].path)
		}
	}
	if got[0].body["name"] != "sol-gel" {
		t.Errorf("Create body = %v", got[0].body)
	}
}

func TestFileLifecycleEndpoints(t *testing.T) {
	var calls []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost:
			_ = json.NewEncoder(w).Encode(testRecord{ID: 3, Name: "spectrum.csv"})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()
	restored, err := Restore[testRecord](ctx, c, "files", 3)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.ID != 3 {
		t.Errorf("Restore result = %+v", restored)
	}
	if err := HardDelete(ctx, c, "files", 3); err != nil {
		t.Fatalf("HardDelete failed: %v", err)
	}

	if calls[0] != "POST /api/v1/files/3/restore" {
		t.Errorf("restore call = %q", calls[0])
	}
	if calls[1] != "DELETE /api/v1/files/3/hard" {
		t.Errorf("hard delete call = %q", calls[1])
	}
}

func TestLinkUnlink(t *testing.T) {
	var calls []string
	var linkBody map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost && r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&linkBody)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := context.Background()
	if err := Link(ctx, c, "experiments", 5, "contaminants", 2, map[string]string{"ppm": "120.5"}); err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if err := Link(ctx, c, "experiments", 5, "samples", 9, nil); err != nil {
		t.Fatalf("Link without attrs failed: %v", err)
	}
	if err := Unlink(ctx, c, "experiments", 5, "samples", 9); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}

	want := []string{
		"POST /api/v1/experiments/5/contaminants/2",
		"POST /api/v1/experiments/5/samples/9",
		"DELETE /api/v1/experiments/5/samples/9",
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}

	// ppm travels as a decimal string, never a float.
	if linkBody["ppm"] != "120.5" {
		t.Errorf("link body = %v, want ppm 120.5", linkBody)
	}
}

func TestTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	c, err := NewClient(Config{BaseURL: srv.URL, RetryWait: time.Millisecond}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = List[testRecord](context.Background(), c, "users")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.Method != http.MethodGet {
		t.Errorf("RequestError.Method = %q", reqErr.Method)
	}
	if reqErr.Unwrap() == nil {
		t.Error("RequestError should wrap the transport error")
	}
}
