package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	onTokens      func(accessToken, refreshToken string)
	onAuthExpired func()
}

type Options struct {
	Timeout time.Duration
}

func NewClient(baseURL string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// OnTokens registers the hook called whenever the token pair changes (login,
// refresh, logout), so the session layer can persist it.
func (c *Client) OnTokens(fn func(accessToken, refreshToken string)) {
	c.mu.Lock()
	c.onTokens = fn
	c.mu.Unlock()
}

// OnAuthExpired registers the hook called when a refresh attempt fails or a
// retried request comes back 401 again.
func (c *Client) OnAuthExpired(fn func()) {
	c.mu.Lock()
	c.onAuthExpired = fn
	c.mu.Unlock()
}

func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	notify := c.onTokens
	c.mu.Unlock()
	if notify != nil {
		notify(accessToken, refreshToken)
	}
}

func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) ClearTokens() {
	c.SetTokens("", "")
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *responseError  `json:"error"`
}

type responseError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// do issues a JSON request against the backend. A 401 triggers exactly one
// refresh-and-retry; a second 401 on the retried request forces logout
// instead of another refresh.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
	}

	retried := false
	for {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.authorize(req)

		retry, err := c.execute(req, out, &retried)
		if retry {
			continue
		}
		return err
	}
}

func (c *Client) authorize(req *http.Request) {
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// execute runs one attempt. It reports retry=true when the caller should
// re-issue the request after a successful token refresh.
func (c *Client) execute(req *http.Request, out interface{}, retried *bool) (bool, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if !*retried {
			*retried = true
			if refreshErr := c.refresh(req.Context()); refreshErr == nil {
				return true, nil
			}
			c.expire()
			return false, fmt.Errorf("token refresh failed: %w", ErrAuthExpired)
		}
		c.expire()
		return false, decodeError(resp)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, decodeError(resp)
	}
	if out == nil {
		return false, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, fmt.Errorf("decode response data: %w", err)
	}
	return false, nil
}

func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()
	if refreshToken == "" {
		return ErrAuthExpired
	}

	payload, _ := json.Marshal(map[string]string{"refreshToken": refreshToken})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/auth/refresh", nil), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if result.AccessToken == "" {
		return ErrAuthExpired
	}

	c.SetTokens(result.AccessToken, refreshToken)
	return nil
}

func (c *Client) expire() {
	c.ClearTokens()
	c.mu.Lock()
	notify := c.onAuthExpired
	c.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	return apiErr
}
