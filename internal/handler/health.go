package handler

import (
	"encoding/json"
	"net/http"

	"github.com/DukeRupert/folio/internal/domain"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Posts  int    `json:"posts"`
}

// Health reports that the server is up and how many posts are loaded.
func Health(content ContentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := content.Posts(domain.NewPageParams(1, 1))
		body := HealthResponse{Status: "ok"}
		if err == nil {
			body.Posts = page.Total
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(body)
	}
}
