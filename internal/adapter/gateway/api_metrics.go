package gateway

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"search-mcp/internal/domain"
)

// metricsHandler returns an HTTP handler for GET /metrics in Prometheus text format.
// This uses the lightweight text format to avoid pulling in the full prometheus client.
func metricsHandler(tools domain.ToolExecutor, startTime time.Time, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		schemas := tools.Schemas()

		// Tool metrics.
		fmt.Fprintf(w, "# HELP searchmcp_tool_calls_total Total tool invocations.\n")
		fmt.Fprintf(w, "# TYPE searchmcp_tool_calls_total counter\n")
		fmt.Fprintf(w, "searchmcp_tool_calls_total %d\n", metrics.ToolCallsTotal.Load())

		fmt.Fprintf(w, "# HELP searchmcp_tool_errors_total Total tool errors.\n")
		fmt.Fprintf(w, "# TYPE searchmcp_tool_errors_total counter\n")
		fmt.Fprintf(w, "searchmcp_tool_errors_total %d\n", metrics.ToolErrorsTotal.Load())

		fmt.Fprintf(w, "# HELP searchmcp_tools_registered Number of registered tools.\n")
		fmt.Fprintf(w, "# TYPE searchmcp_tools_registered gauge\n")
		fmt.Fprintf(w, "searchmcp_tools_registered %d\n", len(schemas))

		// Uptime.
		fmt.Fprintf(w, "# HELP searchmcp_uptime_seconds Seconds since the server started.\n")
		fmt.Fprintf(w, "# TYPE searchmcp_uptime_seconds gauge\n")
		fmt.Fprintf(w, "searchmcp_uptime_seconds %.0f\n", time.Since(startTime).Seconds())

		// Go runtime metrics.
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		fmt.Fprintf(w, "# HELP go_goroutines Number of goroutines.\n")
		fmt.Fprintf(w, "# TYPE go_goroutines gauge\n")
		fmt.Fprintf(w, "go_goroutines %d\n", runtime.NumGoroutine())

		fmt.Fprintf(w, "# HELP go_memstats_alloc_bytes Bytes of allocated heap objects.\n")
		fmt.Fprintf(w, "# TYPE go_memstats_alloc_bytes gauge\n")
		fmt.Fprintf(w, "go_memstats_alloc_bytes %d\n", mem.Alloc)

		fmt.Fprintf(w, "# HELP go_memstats_sys_bytes Total bytes of memory obtained from the OS.\n")
		fmt.Fprintf(w, "# TYPE go_memstats_sys_bytes gauge\n")
		fmt.Fprintf(w, "go_memstats_sys_bytes %d\n", mem.Sys)
	}
}
