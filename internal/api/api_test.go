package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGETSendsQueryAndHeaders(t *testing.T) {
	var gotPath, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotHeader = r.Header.Get("X-Default")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeader("X-Default", "yes"))
	resp, err := c.GET(context.Background(), "/things", map[string]string{"X-Default": "yes"})
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if gotPath != "/things" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotHeader != "yes" {
		t.Fatalf("header = %q", gotHeader)
	}
	if resp.String() != `{"ok":true}` {
		t.Fatalf("body = %q", resp.String())
	}
}

func TestDoEncodesQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient()
	req := NewRequest(http.MethodGet, srv.URL).
		WithContext(context.Background()).
		WithQuery("q", "stock market")
	if _, err := c.Do(req); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotQuery != "stock market" {
		t.Fatalf("q = %q", gotQuery)
	}
}

func TestPOSTEncodesJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient()
	if _, err := c.POST(context.Background(), srv.URL, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("POST: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotBody["k"] != "v" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestDoReturnsStatusErrorWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := NewClient()
	resp, err := c.GET(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %T", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d", statusErr.StatusCode)
	}
	if string(statusErr.Body) != "slow down" {
		t.Fatalf("body = %q", statusErr.Body)
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Fatal("response should accompany the status error")
	}
}

func TestParseJSON(t *testing.T) {
	resp := &Response{Body: []byte(`{"name":"x"}`)}
	var v struct {
		Name string `json:"name"`
	}
	if err := resp.ParseJSON(&v); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if v.Name != "x" {
		t.Fatalf("name = %q", v.Name)
	}

	bad := &Response{Body: []byte("not json")}
	if err := bad.ParseJSON(&v); err == nil {
		t.Fatal("expected parse error")
	}
}
