package httptransport

import (
	"context"
	"net/http"
	"sort"
	"time"

	"lotolink/pkg/platform/httputil"
)

const checkTimeout = 2 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Health reports process liveness and the state of registered dependencies.
type Health struct {
	checks map[string]Check
}

func NewHealth() *Health {
	return &Health{checks: make(map[string]Check)}
}

// Add registers a named dependency check. Nil checks are ignored.
func (h *Health) Add(name string, check Check) {
	if check == nil {
		return
	}
	h.checks[name] = check
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
