package forticare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultAuthURL is the FortiCloud OAuth token endpoint.
	DefaultAuthURL = "https://customerapiauth.fortinet.com/api/v1/oauth/token/"
	// DefaultRegistrationURL is the FortiCare license registration endpoint.
	DefaultRegistrationURL = "https://support.fortinet.com/ES/api/registration/v3/licenses/register"

	defaultTimeout   = 60 * time.Second
	maxResponseBytes = 4 << 20 // 4 MB, license files are a few KB

	descriptionLayout = "2006-01-02 15:04:05"
)

// Client talks to the FortiCloud token endpoint and the FortiCare registration API.
type Client struct {
	authURL         string
	registrationURL string
	httpClient      *http.Client
	timeout         time.Duration // applied after all options
	userAgent       string
	logger          *slog.Logger
	now             func() time.Time
}

// NewClient creates a new client for the FortiCloud/FortiCare APIs.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		authURL:         DefaultAuthURL,
		registrationURL: DefaultRegistrationURL,
		timeout:         defaultTimeout,
		userAgent:       "forticare-register/1.0",
		logger:          slog.Default(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.httpClient.Timeout = c.timeout
	return c
}

// Token exchanges the credentials for a bearer token using the OAuth password grant.
// Any failure is returned as an error; an error body is classified into an *AuthError.
func (c *Client) Token(ctx context.Context, creds Credentials) (string, error) {
	clientID := creds.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	c.logger.Info("authenticating", slog.String("username", creds.Username), slog.String("client_id", clientID))

	status, body, err := c.post(ctx, c.authURL, "", tokenRequest{
		Username:  creds.Username,
		Password:  creds.Password,
		ClientID:  clientID,
		GrantType: "password",
	})
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if status < 400 && json.Unmarshal(body, &resp) == nil && resp.AccessToken != "" {
		c.logger.Info("authenticated", slog.String("username", creds.Username))
		return resp.AccessToken, nil
	}
	return "", &AuthError{StatusCode: status, Message: classifyAuthError(body)}
}

// classifyAuthError picks the most specific message from an OAuth error body:
// the "oauth" field (all values joined), then "error_message", then
// "error_description", then a generic message.
func classifyAuthError(body []byte) string {
	var env struct {
		OAuth            json.RawMessage `json:"oauth"`
		ErrorMessage     string          `json:"error_message"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return unknownError
	}
	if msg := joinValues(env.OAuth); msg != "" {
		return msg
	}
	if env.ErrorMessage != "" {
		return env.ErrorMessage
	}
	if env.ErrorDescription != "" {
		return env.ErrorDescription
	}
	return unknownError
}

// joinValues flattens a JSON object (values in key order), array or scalar into
// a single ", " separated string.
func joinValues(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	var parts []string
	var walk func(interface{})
	walk = func(v interface{}) {
		switch t := v.(type) {
		case nil:
		case string:
			if t != "" {
				parts = append(parts, t)
			}
		case []interface{}:
			for _, e := range t {
				walk(e)
			}
		case map[string]interface{}:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(t[k])
			}
		default:
			parts = append(parts, fmt.Sprint(t))
		}
	}
	walk(v)
	return strings.Join(parts, ", ")
}

// RegisterLicense redeems a single registration code. ip, when non-empty, is sent
// as additionalInfo and binds the license to that management address.
func (c *Client) RegisterLicense(ctx context.Context, token string, code RegistrationCode, ip string) (*License, error) {
	req := registrationRequest{
		LicenseRegistrationCode: string(code),
		Description:             "Registered by forticare-register on " + c.now().Format(descriptionLayout),
		AdditionalInfo:          ip,
	}
	status, body, err := c.post(ctx, c.registrationURL, token, req)
	if err != nil {
		return nil, fmt.Errorf("registration request: %w", err)
	}

	var resp registrationResponse
	decodeErr := json.Unmarshal(body, &resp)
	if status >= 400 || decodeErr != nil || resp.AssetDetails == nil {
		msg := resp.Message
		if msg == "" {
			msg = unknownError
		}
		return nil, mapAPIError(&APIError{StatusCode: status, Message: msg})
	}

	lic := &License{
		SKU:    resp.AssetDetails.License.LicenseSKU,
		Serial: resp.AssetDetails.SerialNumber,
		Code:   code,
		IPv4:   ip,
	}
	if f := resp.AssetDetails.License.LicenseFile; f != nil {
		lic.File = *f
	}
	return lic, nil
}

// RegisterAll registers every code in order, pairing code i with addrs.For(i).
// A failed code is logged and recorded in Failed; the batch always runs to the end.
func (c *Client) RegisterAll(ctx context.Context, token string, codes []RegistrationCode, addrs AddressList) RegisterResult {
	var result RegisterResult
	for i, code := range codes {
		ip, _ := addrs.For(i)
		log := c.logger.With(slog.String("code", string(code)))
		if ip != "" {
			log = log.With(slog.String("ipv4", ip))
		}

		log.Info("registering license")
		lic, err := c.RegisterLicense(ctx, token, code, ip)
		if err != nil {
			log.Warn("registration failed", slog.String("message", ServerMessage(err)))
			result.Failed = append(result.Failed, ItemError{Item: string(code), Err: err})
			continue
		}
		log.Info("registered license", slog.String("serial", lic.Serial), slog.String("sku", lic.SKU))
		result.Licenses = append(result.Licenses, *lic)
	}
	return result
}

// post sends body as JSON and returns the status code and the (size limited) body.
// Only transport failures are returned as errors; HTTP error statuses are left to
// the caller to interpret.
func (c *Client) post(ctx context.Context, url, bearer string, body interface{}) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
