package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calcledger/internal/constants"
	"github.com/calcledger/internal/identity"

	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	identities map[string]*identity.Identity
	expired    map[string]bool
}

func (v *fakeVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	if v.expired[token] {
		return nil, identity.ErrTokenExpired
	}
	if ident, ok := v.identities[token]; ok {
		return ident, nil
	}
	return nil, identity.ErrTokenInvalid
}

func newAuthTestEngine(verifier identity.Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/probe", IdentityAuthMiddleware(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"subject_id": c.GetString(constants.ContextKeySubjectID),
			"email":      c.GetString(constants.ContextKeyEmail),
			"token":      c.GetString(constants.ContextKeyToken),
		})
	})
	return r
}

func doProbe(t *testing.T, r *gin.Engine, authHeader string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	body := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v, body %q", err, w.Body.String())
	}
	return w, body
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"abc123", "abc123"},
		{"  Bearer abc123  ", "abc123"},
		{"", ""},
		{"   ", ""},
		{"Basic abc123", ""},
	}
	for _, tc := range cases {
		if got := bearerToken(tc.header); got != tc.want {
			t.Fatalf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestIdentityAuthMiddlewareMissingToken(t *testing.T) {
	r := newAuthTestEngine(&fakeVerifier{})

	w, body := doProbe(t, r, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if body["error"] != "No token provided" {
		t.Fatalf("unexpected error body: %v", body)
	}
	if body["request_id"] == "" {
		t.Fatalf("expected request_id in error body")
	}
}

func TestIdentityAuthMiddlewareExpiredToken(t *testing.T) {
	r := newAuthTestEngine(&fakeVerifier{expired: map[string]bool{"stale": true}})

	w, body := doProbe(t, r, "Bearer stale")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if body["error"] != "Token expired. Please log in again." {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestIdentityAuthMiddlewareInvalidToken(t *testing.T) {
	r := newAuthTestEngine(&fakeVerifier{})

	w, body := doProbe(t, r, "Bearer garbage")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if body["error"] != "Unauthorized - Invalid token" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestIdentityAuthMiddlewareAcceptsBothHeaderForms(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*identity.Identity{
		"good": {SubjectID: "subject-1", Email: "user@example.com"},
	}}
	r := newAuthTestEngine(verifier)

	for _, header := range []string{"Bearer good", "good"} {
		w, body := doProbe(t, r, header)
		if w.Code != http.StatusOK {
			t.Fatalf("header %q: expected status 200, got %d", header, w.Code)
		}
		if body["subject_id"] != "subject-1" || body["email"] != "user@example.com" {
			t.Fatalf("header %q: unexpected context values: %v", header, body)
		}
		if body["token"] != "good" {
			t.Fatalf("header %q: expected raw token in context, got %v", header, body["token"])
		}
	}
}

func TestRequestIDMiddlewareEchoesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(requestIDHeader, "req-42")
	r.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected request id header to be echoed, got %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}
}
