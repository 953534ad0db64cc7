package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fishing-backend/internal/handlers"
	"fishing-backend/internal/middleware"
	"fishing-backend/internal/models"
	"fishing-backend/internal/repository"
	"fishing-backend/internal/scheduler"
	"fishing-backend/internal/services"
	"fishing-backend/internal/websocket"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>fishing</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := repository.NewMemoryStore()
	tokens := middleware.NewTokenAuth("test-secret", false)
	policy, err := scheduler.New("ladder")
	if err != nil {
		t.Fatal(err)
	}
	hub := websocket.NewHub(nil, "")

	identity := services.NewIdentityService(store, tokens, "")
	ponds := services.NewPondService(store, policy, nil, hub)
	fishing := services.NewFishingService(store, policy, hub)
	feedback := services.NewFeedbackService(store)

	return New(
		tokens,
		identity,
		handlers.NewIdentityHandler(identity),
		handlers.NewPondHandler(ponds),
		handlers.NewFishingHandler(fishing),
		handlers.NewFeedbackHandler(feedback),
		handlers.NewStaticHandler(dir, identity, tokens),
		hub,
		"",
	)
}

type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)
	return rr
}

func bootstrap(t *testing.T, h http.Handler) *client {
	t.Helper()
	c := &client{t: t, h: h}
	rr := c.do(http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET / expected 200, got %d", rr.Code)
	}
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			c.cookie = ck
		}
	}
	if c.cookie == nil {
		t.Fatal("expected an identity cookie")
	}
	return c
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ok") {
		t.Errorf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}

func TestAPI_RequiresCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ponds", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestStaticFallback(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ponds/some/client/route", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "fishing") {
		t.Errorf("expected index fallback, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestFishingRoundTrip(t *testing.T) {
	c := bootstrap(t, newTestRouter(t))

	rr := c.do(http.MethodPost, "/api/v1/ponds",
		`{"name":"Capitals","intervals":[{"days":0,"hours":0,"minutes":0},{"days":1,"hours":0,"minutes":0}]}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create pond: expected 201, got %d %s", rr.Code, rr.Body.String())
	}
	pond := decode[models.Pond](t, rr)

	rr = c.do(http.MethodPost, "/api/v1/ponds/"+pond.ID.String()+"/fish", `{"question":"France?","answer":"Paris"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create fish: expected 201, got %d %s", rr.Code, rr.Body.String())
	}
	fish := decode[models.Fish](t, rr)
	if !fish.Ready {
		t.Fatal("expected the new fish to be ready")
	}

	rr = c.do(http.MethodGet, "/api/v1/fishing-sessions/current", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with no session, got %d", rr.Code)
	}

	rr = c.do(http.MethodPost, "/api/v1/ponds/"+pond.ID.String()+"/start-fishing", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("start fishing: expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	if got := decode[models.Fish](t, rr); got.ID != fish.ID {
		t.Fatalf("expected fish %s, got %s", fish.ID, got.ID)
	}

	rr = c.do(http.MethodPost, "/api/v1/ponds/"+pond.ID.String()+"/start-fishing", "")
	if rr.Code != http.StatusConflict || !strings.Contains(rr.Body.String(), string(services.SessionAlreadyActive)) {
		t.Fatalf("expected SESSION_ALREADY_ACTIVE, got %d %s", rr.Code, rr.Body.String())
	}

	rr = c.do(http.MethodPut, "/api/v1/fishes/"+fish.ID.String()+"/caught", `{"quality":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("caught: expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	caught := decode[models.Fish](t, rr)
	if caught.DepthLevel != 1 || caught.Ready {
		t.Errorf("expected depth 1 and not ready, got depth %d ready %v", caught.DepthLevel, caught.Ready)
	}

	rr = c.do(http.MethodGet, "/api/v1/fishing-sessions/current", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("expected the session to close, got %d", rr.Code)
	}

	rr = c.do(http.MethodPost, "/api/v1/ponds/"+pond.ID.String()+"/start-fishing", "")
	if rr.Code != http.StatusConflict || !strings.Contains(rr.Body.String(), string(services.NoReadyFish)) {
		t.Errorf("expected NO_READY_FISH, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestPondsAreScopedToFisher(t *testing.T) {
	h := newTestRouter(t)
	alice := bootstrap(t, h)
	bob := bootstrap(t, h)

	rr := alice.do(http.MethodPost, "/api/v1/ponds", `{"name":"Private"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create pond: expected 201, got %d", rr.Code)
	}
	pond := decode[models.Pond](t, rr)

	if rr := bob.do(http.MethodGet, "/api/v1/ponds/"+pond.ID.String(), ""); rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for another fisher's pond, got %d", rr.Code)
	}
	list := decode[[]models.Pond](t, bob.do(http.MethodGet, "/api/v1/ponds", ""))
	if len(list) != 0 {
		t.Errorf("expected no ponds for a new fisher, got %d", len(list))
	}
}
