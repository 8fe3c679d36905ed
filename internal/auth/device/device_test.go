package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"blank header", "   ", "Unknown Device"},
		{
			"chrome on mac",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Chrome on Intel Mac OS X 10_15_7",
		},
		{
			"firefox on linux",
			"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			"Firefox on Linux x86_64",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseUserAgent(tt.userAgent))
		})
	}
}

func TestParseUserAgentMobileNamesPlatform(t *testing.T) {
	got := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Contains(t, got, "Safari on ")
	assert.Contains(t, got, "iPhone")
}

func TestParseUserAgentUnrecognised(t *testing.T) {
	got := ParseUserAgent("lotolink-pos/2.3")
	assert.NotContains(t, got, "  ")
	assert.Contains(t, got, " on ")
}
