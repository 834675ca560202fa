package transport

import (
	"net/http"
	"net/url"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := BearerAuth{Token: "login-token"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	authHeader := req.Header.Get("Authorization")
	expected := "Bearer login-token"
	if authHeader != expected {
		t.Errorf("Expected Authorization header '%s', got '%s'", expected, authHeader)
	}
}

// TestBearerAuthEmptyToken tests that an empty token sends no header.
func TestBearerAuthEmptyToken(t *testing.T) {
	auth := BearerAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

// TestHeaderAuth tests custom header authentication.
func TestHeaderAuth(t *testing.T) {
	auth := HeaderAuth{Header: "X-Api-Key", Value: "secret"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	if got := req.Header.Get("X-Api-Key"); got != "secret" {
		t.Errorf("Expected X-Api-Key header 'secret', got '%s'", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

// TestQueryAuth tests query parameter authentication.
func TestQueryAuth(t *testing.T) {
	auth := QueryAuth{Param: "token", Value: "abc"}

	reqURL, _ := url.Parse("http://localhost:9099/notify/channel/list?pageNum=2")
	req := &http.Request{
		URL:    reqURL,
		Header: make(http.Header),
	}

	auth.Apply(req)

	query := req.URL.Query()
	if query.Get("token") != "abc" {
		t.Errorf("Expected query param 'token=abc', got '%s'", req.URL.RawQuery)
	}
	if query.Get("pageNum") != "2" {
		t.Errorf("Expected existing param to be preserved, got '%s'", query.Get("pageNum"))
	}

	// Nil URL must not panic.
	QueryAuth{Param: "token", Value: "abc"}.Apply(&http.Request{Header: make(http.Header)})
}
