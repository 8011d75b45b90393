package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const DefaultProxyTimeout = 30 * time.Second

// Response 下游响应；JSON 体可解析时 JSON=true
type Response struct {
	Status          int
	Body            []byte
	JSON            bool
	ContentType     string
	ContentEncoding string
}

// Proxy 把入站请求转发到下游并回传结果
type Proxy struct {
	client *http.Client
	log    *zap.Logger
}

func NewProxy(timeout time.Duration, log *zap.Logger) *Proxy {
	if timeout <= 0 {
		timeout = DefaultProxyTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Proxy{client: &http.Client{Timeout: timeout}, log: log}
}

// Forward 连接失败 → ErrServiceUnavailable，超时 → ErrServiceTimeout，其它 → ErrProxy
func (p *Proxy) Forward(ctx context.Context, t Target, in *http.Request) (*Response, error) {
	out, err := BuildOutbound(ctx, in, t)
	if err != nil {
		proxyRequests.WithLabelValues(string(t.Service), "bad_request").Inc()
		return nil, err
	}

	start := time.Now()
	resp, err := p.client.Do(out)
	if err != nil {
		cerr := classify(err)
		proxyRequests.WithLabelValues(string(t.Service), outcomeOf(cerr)).Inc()
		p.log.Warn("proxy failed",
			zap.String("service", string(t.Service)),
			zap.String("url", out.URL.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", cerr, t.Service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		cerr := classify(err)
		proxyRequests.WithLabelValues(string(t.Service), outcomeOf(cerr)).Inc()
		return nil, fmt.Errorf("%w: %s: read body: %v", cerr, t.Service, err)
	}
	proxyRequests.WithLabelValues(string(t.Service), "ok").Inc()

	return &Response{
		Status:          resp.StatusCode,
		Body:            body,
		JSON:            len(body) > 0 && json.Valid(body),
		ContentType:     resp.Header.Get("Content-Type"),
		ContentEncoding: resp.Header.Get("Content-Encoding"),
	}, nil
}

// classify 先看拨号失败，再看超时
func classify(err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return ErrServiceUnavailable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || errors.Is(err, syscall.ECONNREFUSED) {
		return ErrServiceUnavailable
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrServiceTimeout
	}
	return ErrProxy
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, ErrServiceTimeout):
		return "timeout"
	default:
		return "error"
	}
}
