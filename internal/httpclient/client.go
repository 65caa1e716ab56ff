// Package httpclient configures the HTTP client used to call WCPS
// servers.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// NewOutbound builds the outbound client. connTimeout bounds dialing and
// the TLS handshake; overall bounds a whole exchange and should be generous
// since coverage processing queries can legitimately run for minutes. Zero
// values pick defaults.
func NewOutbound(connTimeout, overall time.Duration) *http.Client {
	if connTimeout <= 0 {
		connTimeout = 10 * time.Second
	}
	if overall <= 0 {
		overall = 10 * time.Minute
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: connTimeout, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   overall,
	}
}
