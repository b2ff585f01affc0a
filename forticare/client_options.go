package forticare

import (
	"log/slog"
	"net/http"
	"time"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client for the Client.
// The client's Timeout will be overridden by WithTimeout (or the default 60s).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *Client) {
		o.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout. Default is 60 seconds.
// Option ordering does not matter: timeout is always applied after all options.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *Client) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) ClientOption {
	return func(o *Client) {
		o.userAgent = ua
	}
}

// WithAuthURL overrides the OAuth token endpoint.
func WithAuthURL(u string) ClientOption {
	return func(o *Client) {
		if u != "" {
			o.authURL = u
		}
	}
}

// WithRegistrationURL overrides the license registration endpoint.
func WithRegistrationURL(u string) ClientOption {
	return func(o *Client) {
		if u != "" {
			o.registrationURL = u
		}
	}
}

// WithLogger sets the logger used for per-item progress and warnings.
func WithLogger(l *slog.Logger) ClientOption {
	return func(o *Client) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source used to stamp registration descriptions.
func WithClock(now func() time.Time) ClientOption {
	return func(o *Client) {
		o.now = now
	}
}
