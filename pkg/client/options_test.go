package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 60 * time.Second}
	c := &Client{}
	WithHTTPClient(custom)(c)
	assert.Same(t, custom, c.httpClient)

	WithHTTPClient(nil)(c)
	assert.Same(t, custom, c.httpClient)
}

func TestWithTimeout(t *testing.T) {
	transport := &http.Transport{}
	c := &Client{httpClient: &http.Client{Transport: transport}}
	WithTimeout(2 * time.Second)(c)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
	assert.Same(t, transport, c.httpClient.Transport)

	WithTimeout(0)(c)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)

	bare := &Client{}
	WithTimeout(time.Second)(bare)
	require.NotNil(t, bare.httpClient)
	assert.Equal(t, time.Second, bare.httpClient.Timeout)
}

func TestWithLogger(t *testing.T) {
	logger := &testLogger{}
	c := &Client{}
	WithLogger(logger)(c)
	assert.Equal(t, logger, c.logger)
}

func TestWithRetryMax(t *testing.T) {
	c := &Client{retryMax: 3}
	WithRetryMax(5)(c)
	assert.Equal(t, 5, c.retryMax)
	WithRetryMax(0)(c)
	assert.Equal(t, 0, c.retryMax)
	WithRetryMax(-1)(c)
	assert.Equal(t, 0, c.retryMax)
}

func TestWithRetryWait(t *testing.T) {
	tests := []struct {
		name             string
		min, max         time.Duration
		wantMin, wantMax time.Duration
	}{
		{"valid range", time.Second, 5 * time.Second, time.Second, 5 * time.Second},
		{"equal values", 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second},
		{"zero min", 0, 5 * time.Second, 0, 0},
		{"max less than min", 5 * time.Second, 2 * time.Second, 5 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{}
			WithRetryWait(tt.min, tt.max)(c)
			assert.Equal(t, tt.wantMin, c.retryWaitMin)
			assert.Equal(t, tt.wantMax, c.retryWaitMax)
		})
	}
}

func TestWithUserAgent(t *testing.T) {
	c := &Client{userAgent: "default"}
	WithUserAgent("")(c)
	assert.Equal(t, "default", c.userAgent)
	WithUserAgent("custom-agent/1.0")(c)
	assert.Equal(t, "custom-agent/1.0", c.userAgent)
}

//Personal.AI order the ending
