package audit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRequest(remoteAddr string, headers map[string]string) *http.Request {
	r := &http.Request{Header: http.Header{}, RemoteAddr: remoteAddr}
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "cloudflare header wins",
			remoteAddr: "10.0.0.1:1234",
			headers: map[string]string{
				"CF-Connecting-IP": "203.0.113.7",
				"X-Forwarded-For":  "198.51.100.2",
			},
			want: "203.0.113.7",
		},
		{
			name:       "forwarded chain takes leftmost",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2, 10.0.0.3"},
			want:       "203.0.113.7",
		},
		{
			name:       "real ip header",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			want:       "198.51.100.2",
		},
		{
			name:       "invalid header falls through to next",
			remoteAddr: "10.0.0.1:1234",
			headers: map[string]string{
				"CF-Connecting-IP": "not-an-ip",
				"X-Real-IP":        "198.51.100.2",
			},
			want: "198.51.100.2",
		},
		{
			name:       "falls back to remote addr",
			remoteAddr: "192.0.2.9:5555",
			want:       "192.0.2.9",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.9",
			want:       "192.0.2.9",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "nothing valid",
			remoteAddr: "garbage",
			headers:    map[string]string{"X-Forwarded-For": "also-garbage"},
			want:       UnknownIP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientIP(newRequest(tt.remoteAddr, tt.headers)))
		})
	}
}
