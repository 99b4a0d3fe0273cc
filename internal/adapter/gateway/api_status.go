package gateway

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"search-mcp/internal/domain"
)

// StatusResponse is the JSON body returned by GET /api/v1/status.
type StatusResponse struct {
	Server ServerStatus `json:"server"`
	Tools  ToolStatus   `json:"tools"`
}

// ServerStatus holds server overview info.
type ServerStatus struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Transport     string `json:"transport"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ToolStatus holds tool usage stats.
type ToolStatus struct {
	Registered  int      `json:"registered"`
	Names       []string `json:"names"`
	CallsTotal  int64    `json:"calls_total"`
	ErrorsTotal int64    `json:"errors_total"`
}

// Metrics tracks counters for the status API and Prometheus metrics.
type Metrics struct {
	ToolCallsTotal  atomic.Int64
	ToolErrorsTotal atomic.Int64
}

// statusHandler returns an HTTP handler for GET /api/v1/status.
func statusHandler(tools domain.ToolExecutor, transport string, startTime time.Time, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		schemas := tools.Schemas()
		names := make([]string, len(schemas))
		for i, sc := range schemas {
			names[i] = sc.Name
		}

		resp := StatusResponse{
			Server: ServerStatus{
				Name:          serverName,
				Version:       serverVersion,
				Transport:     transport,
				UptimeSeconds: int64(time.Since(startTime).Seconds()),
			},
			Tools: ToolStatus{
				Registered:  len(schemas),
				Names:       names,
				CallsTotal:  metrics.ToolCallsTotal.Load(),
				ErrorsTotal: metrics.ToolErrorsTotal.Load(),
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
