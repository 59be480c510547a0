package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/matches/{gameID}/timeline", handler.GetMatchTimeline)
	mux.HandleFunc("GET /v1/matches/{gameID}/top-events", handler.GetMatchTopEvents)
	mux.HandleFunc("GET /v1/matches/{gameID}/lineup", handler.GetMatchLineup)
	mux.HandleFunc("GET /v1/clips/playback", handler.GetClipPlayback)
}

func registerFeedRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/feed/categories", handler.ListFeedCategories)
	mux.HandleFunc("POST /v1/feed/sessions", handler.CreateFeedSession)
	mux.HandleFunc("GET /v1/feed/sessions/{sessionID}", handler.GetFeedSession)
	mux.HandleFunc("PUT /v1/feed/sessions/{sessionID}/category", handler.SetFeedCategory)
	mux.HandleFunc("POST /v1/feed/sessions/{sessionID}/more", handler.LoadMoreFeed)
	mux.HandleFunc("PUT /v1/feed/sessions/{sessionID}/active", handler.SetFeedActive)
	mux.HandleFunc("POST /v1/feed/sessions/{sessionID}/reload", handler.ReloadFeedSession)
	mux.HandleFunc("DELETE /v1/feed/sessions/{sessionID}", handler.DeleteFeedSession)
}
