package whois

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/lookup", time.Second, zap.NewNop())
}

func TestExpirationFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "example.com" {
			t.Errorf("query: got %q, want example.com", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"expirationDate":"2031-08-13T04:00:00Z"}}`))
	})

	got := c.Expiration(context.Background(), "example.com")
	want := time.Date(2031, 8, 13, 4, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("Expiration: got %v, want %v", got, want)
	}
}

func TestExpirationDateOnly(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"expirationDate":"2030-01-02"}}`))
	})

	got := c.Expiration(context.Background(), "x.com")
	if got == nil || got.Year() != 2030 || got.Month() != time.January || got.Day() != 2 {
		t.Fatalf("Expiration: got %v", got)
	}
}

func TestExpirationDegradesToNil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{not json`)) }},
		{"no result", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{}`)) }},
		{"null date", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"result":{"expirationDate":null}}`)) }},
		{"garbage date", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"result":{"expirationDate":"soon"}}`)) }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, tt.handler)
			if got := c.Expiration(context.Background(), "x.com"); got != nil {
				t.Errorf("got %v, want nil", got)
			}
		})
	}
}

func TestExpirationTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewClient(srv.URL, 50*time.Millisecond, zap.NewNop())
	if got := c.Expiration(context.Background(), "x.com"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
