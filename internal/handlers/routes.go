package handlers

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"grocery-sorter/internal/middleware"
)

// Router wires every endpoint. CORS wraps the whole router so preflight
// requests are answered even for routes restricted to other methods. Body
// limits run before CSRF checks, which may parse form bodies.
func (h *Handler) Router(corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	limit := middleware.MaxBodySize(h.maxBody)
	protect := middleware.CSRFMiddleware(h.csrf, h.logger)

	r.HandleFunc("/health", h.Health).Methods("GET")

	// CSRF token endpoint (no CSRF protection needed for this)
	r.HandleFunc("/api/csrf-token", middleware.CSRFTokenHandler(h.csrf, h.logger)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limit, protect)

	api.HandleFunc("/sort", h.SortText).Methods("POST")
	api.HandleFunc("/import", h.ImportList).Methods("POST")
	api.HandleFunc("/categories", h.GetCategories).Methods("GET")

	api.HandleFunc("/rules", h.GetCategoryRules).Methods("GET")
	api.HandleFunc("/rules", h.CreateCategoryRule).Methods("POST")
	api.HandleFunc("/rules/{id:[0-9]+}", h.UpdateCategoryRule).Methods("PUT")
	api.HandleFunc("/rules/{id:[0-9]+}", h.DeleteCategoryRule).Methods("DELETE")

	page := r.NewRoute().Subrouter()
	page.Use(limit, protect)
	page.HandleFunc("/", h.IndexPage).Methods("GET")
	page.HandleFunc("/sort", h.SortForm).Methods("POST")
	page.HandleFunc("/clear", h.ClearForm).Methods("POST")

	return cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.TokenHeader},
	})(r)
}
