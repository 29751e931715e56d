package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// Client talks to the HTTP routes registered by RegisterRoutes.
type Client struct {
	baseURL string
	http    *http.Client
}

// StatusError is returned for every non 2xx response.
type StatusError struct {
	StatusCode int
	Response   ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Response.Codespace != "" {
		return fmt.Sprintf("%d %s (%s/%d): %s", e.StatusCode, http.StatusText(e.StatusCode), e.Response.Codespace, e.Response.Code, e.Response.Error)
	}

	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Response.Error)
}

// NewClient returns a client for the node at baseURL. A nil httpClient uses
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Broadcast delivers msg to the given view of the node.
func (c *Client) Broadcast(ctx context.Context, view types.ExecutionView, msg types.Msg) (*TxResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	var resp TxResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%s/%s/tx/%s", types.ModuleName, view, msg.Type()), bytes.NewReader(bz), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Get decodes the JSON served at path (relative to the module prefix) into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	p := "/" + types.ModuleName + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		p += "?" + query.Encode()
	}

	return c.do(ctx, http.MethodGet, p, nil, out)
}

// Post posts an empty body to path (relative to the module prefix) and
// decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPost, "/"+types.ModuleName+"/"+strings.TrimLeft(path, "/"), nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&se.Response); err != nil {
			se.Response.Error = "unreadable error response"
		}

		return se
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
