package httputil

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "akterm/1.0 (+https://opendata.dwd.de)"
)

// NewClient returns an HTTP client with the default timeout that identifies
// itself with DefaultUserAgent.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &userAgentTransport{base: http.DefaultTransport, agent: DefaultUserAgent},
	}
}

type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(r)
}
