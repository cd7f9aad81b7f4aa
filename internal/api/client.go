package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockDash/internal/model"
)

// Client talks to the stock data backend.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a backend client with optional proxy support.
func NewClient(baseURL, proxyURL string, timeout time.Duration) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Companies returns the symbols in server order.
func (c *Client) Companies(ctx context.Context) ([]string, error) {
	var resp model.CompaniesResponse
	if err := c.getJSON(ctx, c.BaseURL+"/api/companies", &resp); err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

// Series returns the last days of data for symbol.
func (c *Client) Series(ctx context.Context, symbol string, days int) (*model.Series, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("days", strconv.Itoa(days))
	endpoint := c.BaseURL + "/api/data?" + q.Encode()

	var s model.Series
	if err := c.getJSON(ctx, endpoint, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Refresh asks the server to regenerate its data. Only the status matters.
func (c *Client) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/refresh", nil)
	if err != nil {
		return &RequestError{Message: err.Error(), Err: err}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return &RequestError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: "Refresh failed"}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &RequestError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return &RequestError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Message: fmt.Sprintf("read body: %v", err), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}
	return nil
}
