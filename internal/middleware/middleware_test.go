package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type stubLookup struct {
	known map[uuid.UUID]bool
	err   error
}

func (s stubLookup) FisherExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.known[id], s.err
}

func TestTokenRoundTrip(t *testing.T) {
	auth := NewTokenAuth("secret", false)
	id := uuid.New()

	tok, err := auth.IssueToken(id)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	got, err := auth.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if got != id {
		t.Errorf("Expected %s, got %s", id, got)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	auth := NewTokenAuth("secret", false)
	other := NewTokenAuth("other", false)
	foreign, _ := other.IssueToken(uuid.New())

	noClaim, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString(auth.Secret)
	badID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"fisher_id": "-1"}).SignedString(auth.Secret)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"missing claim", noClaim},
		{"sentinel id", badID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := auth.ParseToken(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestSetCookie(t *testing.T) {
	auth := NewTokenAuth("secret", true)
	rr := httptest.NewRecorder()
	auth.SetCookie(rr, "tok")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure {
		t.Errorf("Unexpected cookie %+v", c)
	}
	if time.Duration(c.MaxAge)*time.Second < 99*365*24*time.Hour {
		t.Errorf("Expected a century-long cookie, got %ds", c.MaxAge)
	}
}

func TestMiddleware(t *testing.T) {
	auth := NewTokenAuth("secret", false)
	known := uuid.New()
	unknown := uuid.New()
	knownTok, _ := auth.IssueToken(known)
	unknownTok, _ := auth.IssueToken(unknown)

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetFisherID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		cookie string
		lookup stubLookup
		want   int
	}{
		{"no cookie", "", stubLookup{}, http.StatusUnauthorized},
		{"bad cookie", "junk", stubLookup{}, http.StatusUnauthorized},
		{"unknown fisher", unknownTok, stubLookup{known: map[uuid.UUID]bool{known: true}}, http.StatusUnauthorized},
		{"lookup failure", knownTok, stubLookup{err: errors.New("db down")}, http.StatusInternalServerError},
		{"known fisher", knownTok, stubLookup{known: map[uuid.UUID]bool{known: true}}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ponds", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.cookie})
			}
			rr := httptest.NewRecorder()

			auth.Middleware(tc.lookup)(next).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("Expected %d, got %d", tc.want, rr.Code)
			}
			if tc.want == http.StatusOK && seen != known {
				t.Errorf("Expected fisher %s in context, got %s", known, seen)
			}
			if tc.want == http.StatusUnauthorized {
				var body map[string]map[string]any
				json.NewDecoder(rr.Body).Decode(&body)
				if body["error"]["code"] != "UNAUTHORIZED" {
					t.Errorf("Expected UNAUTHORIZED code, got %v", body["error"]["code"])
				}
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var inner string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if inner == "" || rr.Header().Get(RequestIDHeader) != inner {
		t.Errorf("Expected generated id echoed, got %q / %q", inner, rr.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if inner != "abc" {
		t.Errorf("Expected incoming id to be kept, got %q", inner)
	}
}

func TestCORS(t *testing.T) {
	h := CORS("http://localhost:5173")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ponds", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected preflight 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Expected credentials to be allowed")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ponds", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("Expected foreign origin to get no CORS headers")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("Expected first two requests to pass")
	}
	if rl.Allow("a") {
		t.Error("Expected third request to be limited")
	}
	if !rl.Allow("b") {
		t.Error("Expected other key to be independent")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("Expected a fresh window to reset the count")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes[i] = rr.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("Expected 200 then 429, got %v", codes)
	}
}
