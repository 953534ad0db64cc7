package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"fishing-backend/internal/handlers"
	"fishing-backend/internal/middleware"
	"fishing-backend/internal/websocket"
)

func New(
	tokenAuth *middleware.TokenAuth,
	fishers middleware.FisherLookup,
	identityHandler *handlers.IdentityHandler,
	pondHandler *handlers.PondHandler,
	fishingHandler *handlers.FishingHandler,
	feedbackHandler *handlers.FeedbackHandler,
	staticHandler *handlers.StaticHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// API rate limiter (120 req/min per fisher)
	apiLimiter := middleware.NewRateLimiter(120, time.Minute)
	// Admin grant limiter (10 req/min per fisher)
	adminLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Identity bootstrap happens when the page loads
	r.Get("/", staticHandler.Index)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(tokenAuth.Middleware(fishers))
		r.Use(apiLimiter.Middleware)

		// ──── Fisher Routes ────
		r.Route("/users", func(r chi.Router) {
			r.With(adminLimiter.Middleware).Post("/", identityHandler.GrantAdmin)
			r.Get("/me", identityHandler.Me)
		})

		// ──── Pond Routes ────
		r.Route("/ponds", func(r chi.Router) {
			r.Get("/", pondHandler.List)
			r.Post("/", pondHandler.Create)
			r.Get("/{id}", pondHandler.Get)
			r.Put("/{id}", pondHandler.Update)
			r.Delete("/{id}", pondHandler.Delete)
			r.Get("/{id}/fishes", pondHandler.ListFishes)
			r.Post("/{id}/fish", pondHandler.CreateFish)
			r.Post("/{id}/fishes", pondHandler.CreateFishes)
			r.Post("/{id}/start-fishing", fishingHandler.StartFishing)
		})

		// ──── Fish Routes ────
		r.Route("/fishes", func(r chi.Router) {
			r.Put("/{id}/caught", fishingHandler.Caught)
			r.Get("/{id}", pondHandler.GetFish)
			r.Put("/{id}", pondHandler.UpdateFish)
			r.Delete("/{id}", pondHandler.DeleteFish)
		})

		// ──── Session Routes ────
		r.Get("/fishing-sessions/current", fishingHandler.Current)

		// ──── Feedback Routes ────
		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", feedbackHandler.Submit)
			r.Get("/", feedbackHandler.List)
			r.Put("/{id}/solve", feedbackHandler.Solve)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	// Built frontend, with client-side routes falling back to index.html
	r.Get("/*", staticHandler.Serve)

	return r
}
