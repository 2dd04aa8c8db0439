package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Checker probes one dependency such as the cart storage or the broker.
type Checker func(ctx context.Context) error

// Status of a dependency or of the whole storefront.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

const probeTimeout = 5 * time.Second

// Response is the body of both probe endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult reports one dependency.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Latency  string `json:"latency"`
	Error    string `json:"error,omitempty"`
}

type dependency struct {
	name     string
	check    Checker
	critical bool
}

// Handler serves liveness and readiness. Storage is registered critical:
// if it is down, carts cannot be served and readiness answers 503. Kafka is
// non-critical: its loss only stops replica sync, so readiness stays 200
// with status "degraded".
type Handler struct {
	mu   sync.RWMutex
	deps map[string]dependency
}

func NewHandler() *Handler {
	return &Handler{deps: make(map[string]dependency)}
}

// RegisterCritical adds a dependency whose failure makes the storefront unready.
func (h *Handler) RegisterCritical(name string, check Checker) {
	h.add(dependency{name: name, check: check, critical: true})
}

// RegisterNonCritical adds a dependency whose failure only degrades the storefront.
func (h *Handler) RegisterNonCritical(name string, check Checker) {
	h.add(dependency{name: name, check: check})
}

func (h *Handler) add(d dependency) {
	h.mu.Lock()
	h.deps[d.name] = d
	h.mu.Unlock()
}

func (h *Handler) snapshot() []dependency {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]dependency, 0, len(h.deps))
	for _, d := range h.deps {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// LivenessHandler answers 200 while the process can serve HTTP at all.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler probes every dependency in parallel under one deadline.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		deps := h.snapshot()
		results := make([]CheckResult, len(deps))
		var wg sync.WaitGroup
		for i, d := range deps {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = probe(ctx, d)
			}()
		}
		wg.Wait()

		resp := Response{Status: StatusUp, Timestamp: time.Now().UTC(), Checks: make(map[string]CheckResult, len(deps))}
		for i, d := range deps {
			res := results[i]
			resp.Checks[d.name] = res
			if res.Status == StatusUp {
				continue
			}
			if d.critical {
				resp.Status = StatusDown
			} else if resp.Status == StatusUp {
				resp.Status = StatusDegraded
			}
		}

		code := http.StatusOK
		if resp.Status == StatusDown {
			code = http.StatusServiceUnavailable
		}
		write(w, code, resp)
	}
}

func probe(ctx context.Context, d dependency) CheckResult {
	start := time.Now()
	err := d.check(ctx)
	res := CheckResult{Status: StatusUp, Critical: d.critical, Latency: time.Since(start).Round(time.Microsecond).String()}
	if err != nil {
		res.Status = StatusDown
		res.Error = err.Error()
	}
	return res
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
