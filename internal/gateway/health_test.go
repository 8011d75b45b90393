package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func statusServer(t *testing.T, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth_AllUp(t *testing.T) {
	up := Upstreams{
		Auth: statusServer(t, http.StatusOK).URL,
		User: statusServer(t, http.StatusNoContent).URL,
		Task: statusServer(t, http.StatusOK).URL,
	}
	rep := NewHealthAggregator(up.List(), time.Second).CheckAll(context.Background())
	assert.Equal(t, StateUp, rep.Status)
	assert.Equal(t, map[Service]State{ServiceAuth: StateUp, ServiceUser: StateUp, ServiceTask: StateUp}, rep.Services)
}

func TestHealth_Degraded(t *testing.T) {
	up := Upstreams{
		Auth: statusServer(t, http.StatusOK).URL,
		User: statusServer(t, http.StatusServiceUnavailable).URL,
		Task: "http://127.0.0.1:1",
	}
	rep := NewHealthAggregator(up.List(), time.Second).CheckAll(context.Background())
	assert.Equal(t, StateDegraded, rep.Status)
	assert.Equal(t, StateUp, rep.Services[ServiceAuth])
	assert.Equal(t, StateDown, rep.Services[ServiceUser])
	assert.Equal(t, StateDown, rep.Services[ServiceTask])
}

func TestHealth_ProbeTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer slow.Close()

	up := []Upstream{{Name: ServiceTask, BaseURL: slow.URL}}
	start := time.Now()
	rep := NewHealthAggregator(up, 50*time.Millisecond).CheckAll(context.Background())
	assert.Equal(t, StateDegraded, rep.Status)
	assert.Less(t, time.Since(start), 2*time.Second)
}
