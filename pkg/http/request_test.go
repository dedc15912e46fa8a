package http_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP(t *testing.T) {
	trusted := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8", "2001:db8:ffff::/48"}}

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		config     *pkghttp.IPConfig
		want       string
	}{
		{"direct client ignores spoofed headers", "203.0.113.10:54321", "1.2.3.4", "192.168.1.1", trusted, "203.0.113.10"},
		{"trusted proxy uses forwarded for", "10.0.0.5:54321", "203.0.113.42", "", trusted, "203.0.113.42"},
		{"trusted proxy skips invalid entries", "10.0.0.5:1", "garbage, 203.0.113.42, 198.51.100.1", "", trusted, "203.0.113.42"},
		{"trusted proxy falls back to real ip", "10.0.0.5:1", "", "198.51.100.7", trusted, "198.51.100.7"},
		{"ipv6 proxy", "[2001:db8:ffff::1]:443", "2001:db8::1", "", trusted, "2001:db8::1"},
		{"no config", "203.0.113.10:1", "1.2.3.4", "", nil, "203.0.113.10"},
		{"invalid cidr ignored", "10.0.0.5:1", "1.2.3.4", "", &pkghttp.IPConfig{TrustedProxies: []string{"not-a-cidr"}}, "10.0.0.5"},
		{"remote addr without port", "203.0.113.10", "", "", nil, "203.0.113.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.want, pkghttp.ExtractClientIP(req, tt.config))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"title":"x"}`, ""},
		{"empty", ``, "empty"},
		{"unknown field", `{"title":"x","extra":1}`, "invalid request body"},
		{"trailing object", `{"title":"x"}{"title":"y"}`, "single JSON object"},
		{"too large", `{"title":"` + strings.Repeat("a", pkghttp.MaxBodyBytes) + `"}`, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var dst payload

			err := pkghttp.DecodeJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, "x", dst.Title)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
