package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"resume-ranker/pkg/apperror"

	"go.uber.org/zap"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Client is the base every service client embeds. It owns the bearer
// header and performs single blocking round trips. A Client belongs to one
// request goroutine and is not safe for concurrent SetToken calls.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	log        *zap.Logger
}

func newClient(baseURL string, httpClient *http.Client, log *zap.Logger, defaults http.Header) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	headers := http.Header{}
	for k, v := range defaults {
		headers[k] = append([]string(nil), v...)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    headers,
		httpClient: httpClient,
		log:        log,
	}
}

// SetToken sets the bearer header used by later calls. An empty token
// removes it.
func (c *Client) SetToken(token string) {
	if token == "" {
		c.headers.Del(headerAuthorization)
		return
	}
	c.headers.Set(headerAuthorization, "Bearer "+token)
}

// Authenticated reports whether a bearer header is set.
func (c *Client) Authenticated() bool {
	return c.headers.Get(headerAuthorization) != ""
}

// Token returns the current bearer token, or "".
func (c *Client) Token() string {
	return strings.TrimPrefix(c.headers.Get(headerAuthorization), "Bearer ")
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// newRequest builds a request carrying the client's headers. contentType,
// when set, replaces the default Content-Type.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	target := c.endpoint(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, apperror.Precondition(fmt.Sprintf("invalid request: %v", err))
	}
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}
	return req, nil
}

// do performs the round trip and returns the status and body of a 2xx
// answer. Non-2xx answers become KindStatus errors carrying the raw body,
// failed round trips become KindTransport errors.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperror.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, apperror.Transport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, body, apperror.Status(resp.StatusCode, string(body))
	}
	return resp.StatusCode, body, nil
}

// decodeJSON decodes a 2xx body into a fresh T.
func decodeJSON[T any](body []byte) (*T, error) {
	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		return nil, apperror.Decode(fmt.Errorf("unexpected response body: %w", err))
	}
	return out, nil
}

// encodeJSON marshals a request payload.
func encodeJSON(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperror.Precondition(fmt.Sprintf("invalid payload: %v", err))
	}
	return bytes.NewReader(b), nil
}

// errorFields returns the zap fields describing a failed call.
func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		fields = append(fields, zap.String("kind", string(appErr.Kind)))
		if appErr.Kind == apperror.KindStatus {
			fields = append(fields, zap.Int("status", appErr.Code))
		}
	}
	return fields
}
