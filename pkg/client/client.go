package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 4 << 10

// Client submits requests to the bfhl endpoint.
type Client struct {
	opts Options
	http *http.Client
}

// New constructs a client with default options plus any overrides.
func New(fns ...OptionFn) *Client {
	opts := NewOptions(fns...)
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{opts: opts, http: httpClient}
}

// Options returns a copy of the client configuration.
func (c *Client) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts
}

// Endpoint is the absolute (or base-relative) URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.opts.BaseURL + c.opts.Path
}

// Submit posts req and decodes the JSON object reply.
func (c *Client) Submit(ctx context.Context, req Request) (Response, error) {
	if c == nil {
		return nil, errors.New("client: nil client")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	body, contentType, err := Encode(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if c.opts.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.opts.UserAgent)
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &StatusError{Code: res.StatusCode, Body: string(snippet)}
	}

	return decodeResponse(res.Body)
}

func decodeResponse(r io.Reader) (Response, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return DecodeResponse(raw)
}

// DecodeResponse parses raw as a JSON object, keeping numbers as json.Number
// so they print back exactly as received. A literal null is no response: a
// nil Response and no error.
func DecodeResponse(raw []byte) (Response, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrDecode)
	}
	return Response(out), nil
}
