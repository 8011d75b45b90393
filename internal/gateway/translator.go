package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxForwardBody 入站 JSON 体上限
const maxForwardBody = 10 << 20

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// readJSONBody 只有 JSON Content-Type 才转发请求体；其它一律空体
func readJSONBody(in *http.Request) ([]byte, error) {
	if in.Body == nil || !isJSON(in.Header.Get("Content-Type")) {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(in.Body, maxForwardBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, ErrInvalidBody
	}
	return raw, nil
}

// copyHeaders 去掉 Host（大小写不敏感），其余原样透传
func copyHeaders(dst, src http.Header) {
	for k, vs := range src {
		if strings.EqualFold(k, "Host") {
			continue
		}
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// BuildOutbound 入站请求 → 发往下游的请求：同方法、同 query、透传头
func BuildOutbound(ctx context.Context, in *http.Request, t Target) (*http.Request, error) {
	body, err := readJSONBody(in)
	if err != nil {
		return nil, err
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	out, err := http.NewRequestWithContext(ctx, in.Method, t.URL(in.URL.RawQuery), rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProxy, err)
	}
	copyHeaders(out.Header, in.Header)
	// 长度以实际转发的体为准
	out.Header.Del("Content-Length")
	return out, nil
}
