package http

import "net/http"

// NewRouter wires every HTTP surface of the service.
func NewRouter(api *APIHandler, ws *WSHandler, metrics *Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /ws/leaderboard", ws.ServeWS)
	api.Register(mux)
	return metrics.Middleware(mux)
}
