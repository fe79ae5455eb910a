package mint

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	errmsg "github.com/webmint/mint-go-cli/internal/errors"
)

// Client represents a monetization API HTTP client. All developer resources
// are rooted at /mint/organizations/{org}/developers; report endpoints and
// the management attribute API temporarily override the base URL.
type Client struct {
	http             *resty.Client
	config           *Config
	cache            ResponseCache
	structuredLogger func(level, message string, fields map[string]interface{})
}

// ErrorResponse is the error body shape returned by the platform
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient creates a new monetization client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newClientInternal(config)
}

// NewClientNoAuth creates a client without authentication validation
// (useful against mock servers in tests)
func NewClientNoAuth(config *Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf(errmsg.MsgBaseURLRequired)
	}
	if config.Organization == "" {
		return nil, fmt.Errorf(errmsg.MsgOrgRequired)
	}
	return newClientInternal(config)
}

func newClientInternal(config *Config) (*Client, error) {
	// Defensive copy to prevent external mutations
	configCopy := *config

	client := resty.New().
		SetBaseURL(configCopy.BaseURL + developersBasePath(configCopy.Organization)).
		SetTimeout(time.Duration(configCopy.Timeout) * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only retry on network errors or 5xx for idempotent methods.
			// POST is never retried: payments and balance top-ups must not
			// be applied twice.
			if r == nil {
				return err != nil
			}
			method := r.Request.Method
			isIdempotent := method == http.MethodGet || method == http.MethodHead
			return isIdempotent && (err != nil || r.StatusCode() >= 500)
		})

	if configCopy.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})
	}

	mintClient := &Client{
		http:   client,
		config: &configCopy,
		cache:  NewLRUResponseCache(defaultCacheSize),
	}

	if configCopy.Verbose {
		enableSecureDebugMode(client, mintClient)
	}

	return mintClient, nil
}

// developersBasePath returns the developer collection path for an organization
func developersBasePath(org string) string {
	return "/mint/organizations/" + url.PathEscape(org) + "/developers"
}

// managementBasePath returns the management (non-monetization) developer
// collection path, used for generic attribute persistence
func managementBasePath(org string) string {
	return "/v1/organizations/" + url.PathEscape(org) + "/developers"
}

// SetResponseCache replaces the response cache used for accepted rate plans.
// Pass nil to disable caching.
func (c *Client) SetResponseCache(cache ResponseCache) {
	c.cache = cache
}

// SetStructuredLogger sets a structured logging function.
// The logger receives: level ("info", "warn", "error"), message, and optional fields
func (c *Client) SetStructuredLogger(logger func(level, message string, fields map[string]interface{})) {
	c.structuredLogger = logger
}

// Developer constructs an empty Developer bound to this client, with
// default field values applied.
func (c *Client) Developer() *Developer {
	d := &Developer{client: c}
	d.initValues()
	return d
}

// log writes a log message using structured logger if available, otherwise falls back to stderr
func (c *Client) log(level, message string, fields map[string]interface{}) {
	if c.structuredLogger != nil {
		c.structuredLogger(level, message, fields)
	} else if c.config.Verbose {
		fmt.Fprintf(os.Stderr, "[%s] %s", level, message)
		if len(fields) > 0 {
			fmt.Fprintf(os.Stderr, " %v", fields)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}
}

// withBaseURL temporarily overrides the client's base URL for the duration
// of fn and restores the previous base URL on every exit path, including
// errors. Callers must not share one client across concurrent operations.
func (c *Client) withBaseURL(base string, fn func() error) error {
	prev := c.http.BaseURL
	c.http.SetBaseURL(base)
	defer c.http.SetBaseURL(prev)
	return fn()
}

// setAuth sets Basic authentication on a request
func (c *Client) setAuth(req *resty.Request) {
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}
}

// handleError parses an error response body and returns a structured
// ResponseError carrying the status code, request URL, query options and
// raw body.
func (c *Client) handleError(resp *resty.Response, options map[string]string) error {
	rawBody := string(resp.Body())

	respErr := &ResponseError{
		StatusCode: resp.StatusCode(),
		URL:        resp.Request.URL,
		Options:    options,
		Message:    rawBody,
		RawBody:    rawBody,
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil && errResp.Message != "" {
		respErr.Message = errResp.Message
		respErr.Code = errResp.Code
	}

	return respErr
}

// buildPath constructs a URL path with properly escaped segments
func buildPath(segments ...string) string {
	var escaped []string
	for _, seg := range segments {
		if seg != "" {
			escaped = append(escaped, url.PathEscape(seg))
		}
	}
	return strings.Join(escaped, "/")
}

const maxBodyLogLength = 2048 // Maximum length for logged request/response bodies

// truncateString truncates a string to maxLength and adds a truncation notice
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return fmt.Sprintf("%s... [TRUNCATED: %d more bytes]", s[:maxLength], len(s)-maxLength)
}

// sensitiveHeadersMap returns the headers that should be redacted in logs
func sensitiveHeadersMap() map[string]bool {
	return map[string]bool{
		"cookie":           true,
		"set-cookie":       true,
		"authorization":    true,
		"x-api-key":        true,
		"authentication":   true,
		"www-authenticate": true,
	}
}

// enableSecureDebugMode enables verbose logging with sensitive data redaction
func enableSecureDebugMode(httpClient *resty.Client, mintClient *Client) {
	sensitiveHeaders := sensitiveHeadersMap()

	// Request details are only fully available after the request is sent,
	// so both sides are logged from OnAfterResponse
	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logRequest(resp, sensitiveHeaders, mintClient)
		logResponse(resp, mintClient)
		return nil
	})
}

// logRequest logs HTTP request details with sensitive data redaction
func logRequest(resp *resty.Response, sensitiveHeaders map[string]bool, mintClient *Client) {
	req := resp.Request.RawRequest
	if req == nil {
		return
	}

	reqURL := req.URL.Path
	if req.URL.RawQuery != "" {
		reqURL += "?" + req.URL.RawQuery
	}

	if mintClient.structuredLogger != nil {
		mintClient.structuredLogger("info", "HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    reqURL,
			"host":   req.Host,
		})
		return
	}

	fmt.Fprintf(os.Stderr, "~~~ REQUEST ~~~\n")
	fmt.Fprintf(os.Stderr, "%s  %s  %s\n", req.Method, reqURL, req.Proto)
	fmt.Fprintf(os.Stderr, "HOST   : %s\n", req.Host)
	fmt.Fprintf(os.Stderr, "HEADERS:\n")
	for key, values := range req.Header {
		if sensitiveHeaders[strings.ToLower(key)] {
			fmt.Fprintf(os.Stderr, "\t%s: [REDACTED]\n", key)
			continue
		}
		for _, value := range values {
			fmt.Fprintf(os.Stderr, "\t%s: %s\n", key, value)
		}
	}
}

// logResponse logs HTTP response details
func logResponse(resp *resty.Response, mintClient *Client) {
	if mintClient.structuredLogger != nil {
		fields := map[string]interface{}{
			"status":   resp.Status(),
			"duration": resp.Time().String(),
		}
		if len(resp.Body()) > 0 {
			fields["body_size"] = len(resp.Body())
		}
		mintClient.structuredLogger("info", "HTTP Response", fields)
		return
	}

	fmt.Fprintf(os.Stderr, "~~~ RESPONSE ~~~\n")
	fmt.Fprintf(os.Stderr, "STATUS  : %s\n", resp.Status())
	fmt.Fprintf(os.Stderr, "DURATION: %v\n", resp.Time())
	if len(resp.Body()) > 0 {
		fmt.Fprintf(os.Stderr, "BODY    :\n%s\n", truncateString(string(resp.Body()), maxBodyLogLength))
	} else {
		fmt.Fprintf(os.Stderr, "BODY    : ***** NO CONTENT *****\n")
	}
}
