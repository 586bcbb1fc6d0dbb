// Package books is the client for the remote accounting system. The
// remote side is the source of truth for every identifier it assigns;
// callers carry those ids back into local records. Calls are made one
// at a time and there is no rollback: a failure mid-sequence is
// surfaced to the operator, not auto-corrected.
package books

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client talks to the accounting API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient builds a client for the given endpoint.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// ErrNotFound is returned when the remote system has no matching record.
var ErrNotFound = fmt.Errorf("accounting record not found")

// FindCustomerByName looks up a customer by exact name.
func (c *Client) FindCustomerByName(ctx context.Context, name string) (*Customer, error) {
	var cust Customer
	path := "/customers?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// CreateCustomer creates a customer and returns it with its remote id.
func (c *Client) CreateCustomer(ctx context.Context, cust Customer) (*Customer, error) {
	var created Customer
	if err := c.do(ctx, http.MethodPost, "/customers", cust, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// EnsureCustomer returns the existing customer with the given name,
// creating it when absent.
func (c *Client) EnsureCustomer(ctx context.Context, name string) (*Customer, error) {
	cust, err := c.FindCustomerByName(ctx, name)
	if err == nil {
		return cust, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	return c.CreateCustomer(ctx, Customer{Name: name})
}

// CreateItem creates a billable service item.
func (c *Client) CreateItem(ctx context.Context, item Item) (*Item, error) {
	var created Item
	if err := c.do(ctx, http.MethodPost, "/items", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateInvoice creates an invoice and returns it with its remote id.
func (c *Client) CreateInvoice(ctx context.Context, inv Invoice) (*Invoice, error) {
	var created Invoice
	if err := c.do(ctx, http.MethodPost, "/invoices", inv, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateCreditMemo creates a credit memo against an invoice.
func (c *Client) CreateCreditMemo(ctx context.Context, memo CreditMemo) (*CreditMemo, error) {
	var created CreditMemo
	if err := c.do(ctx, http.MethodPost, "/credit-memos", memo, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreatePayment records a received payment.
func (c *Client) CreatePayment(ctx context.Context, p Payment) (*Payment, error) {
	var created Payment
	if err := c.do(ctx, http.MethodPost, "/payments", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
