package httpapi

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool; cmd/api adapts the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB    Pinger
	Cache Pinger
}

type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Cache  string `json:"cache"`
	Time   string `json:"time"`
}

// Get Health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		DB:     pingStatus(ctx, h.DB),
		Cache:  pingStatus(ctx, h.Cache),
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "ok"
}
