package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultHealthTimeout = 5 * time.Second

type State string

const (
	StateUp       State = "UP"
	StateDown     State = "DOWN"
	StateDegraded State = "DEGRADED"
)

type Report struct {
	Status   State             `json:"status"`
	Services map[Service]State `json:"services"`
}

// HealthAggregator 并发探测所有下游的 /health
type HealthAggregator struct {
	upstreams []Upstream
	client    *http.Client
	timeout   time.Duration
}

func NewHealthAggregator(up []Upstream, timeout time.Duration) *HealthAggregator {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &HealthAggregator{upstreams: up, client: &http.Client{}, timeout: timeout}
}

// CheckAll 任一下游非 2xx 或不可达 → DEGRADED
func (h *HealthAggregator) CheckAll(ctx context.Context) Report {
	states := make([]State, len(h.upstreams))
	var g errgroup.Group
	for i, u := range h.upstreams {
		i, u := i, u
		g.Go(func() error {
			states[i] = h.probe(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Status: StateUp, Services: make(map[Service]State, len(h.upstreams))}
	for i, u := range h.upstreams {
		rep.Services[u.Name] = states[i]
		up := 0.0
		if states[i] == StateUp {
			up = 1
		} else {
			rep.Status = StateDegraded
		}
		downstreamUp.WithLabelValues(string(u.Name)).Set(up)
	}
	return rep
}

func (h *HealthAggregator) probe(ctx context.Context, u Upstream) State {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(u.BaseURL, "/")+"/health", nil)
	if err != nil {
		return StateDown
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return StateDown
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return StateUp
	}
	return StateDown
}
