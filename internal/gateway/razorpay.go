// Package gateway talks to the Razorpay Orders API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUpstream = errors.New("payment gateway error")

type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway order as returned by POST /orders.
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  int64             `json:"created_at"`
}

type Client struct {
	BaseURL   string
	KeyID     string
	KeySecret []byte
	HTTP      *http.Client
}

func NewClient(baseURL, keyID string, keySecret []byte) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		BaseURL:   baseURL,
		KeyID:     keyID,
		KeySecret: keySecret,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.KeyID, string(c.KeySecret))

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode/100 != 2 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, apiErr.Error.Code, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", ErrUpstream, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrUpstream)
	}
	return &order, nil
}
