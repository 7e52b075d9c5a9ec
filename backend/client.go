// Package backend is the HTTP+JSON client for the store backend that owns
// products and members. The checkout engine itself never talks to the
// network; the terminal shell calls this client and feeds the parsed results
// into the engine.
package backend

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"dinglespos/checkout"
)

const defaultTimeout = 10 * time.Second

// Client talks to the store backend.
type Client struct {
	baseURL       string
	http          *http.Client
	notifyLimiter *rate.Limiter
}

// Option adjusts client construction.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithNotifyRate caps outbound fuel point notifications to the given number
// per minute. Zero or negative leaves them uncapped.
func WithNotifyRate(perMinute float64) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.notifyLimiter = rate.NewLimiter(rate.Limit(perMinute/60.0), 1)
		}
	}
}

// NewClient constructs a client against the given base URL, e.g.
// "http://localhost:8080/database".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		notifyLimiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetItem looks up a product by scanned id. A missing item, a null body, or a
// body without a name maps to checkout.ErrNotFound.
func (c *Client) GetItem(ctx context.Context, id string) (checkout.Product, error) {
	var payload *itemPayload
	if err := c.getJSON(ctx, "/getItem/"+url.PathEscape(id), &payload); err != nil {
		return checkout.Product{}, fmt.Errorf("get item %s: %w", id, err)
	}
	if payload == nil || strings.TrimSpace(payload.Name) == "" {
		return checkout.Product{}, fmt.Errorf("get item %s: %w", id, checkout.ErrNotFound)
	}
	return payload.product(id), nil
}

// GetMember looks up a member by card id (the backend also accepts free-form
// queries on this route).
func (c *Client) GetMember(ctx context.Context, idOrQuery string) (*checkout.Member, error) {
	return c.fetchMember(ctx, "/getMember/"+url.PathEscape(idOrQuery))
}

// GetMemberByPhone looks up a member by phone number.
func (c *Client) GetMemberByPhone(ctx context.Context, phone string) (*checkout.Member, error) {
	return c.fetchMember(ctx, "/getMemberByPhone/"+url.PathEscape(phone))
}

func (c *Client) fetchMember(ctx context.Context, path string) (*checkout.Member, error) {
	var payload *memberPayload
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("get member: %w", checkout.ErrNotFound)
	}
	return payload.member(), nil
}

// AddMember signs up a new loyalty member. The backend answers with opaque
// confirmation text; success is inferred by fetching the member back by
// phone.
func (c *Client) AddMember(ctx context.Context, firstName, lastName string, phone int64) (string, error) {
	body, err := json.Marshal(addMemberPayload{
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phone,
	})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, http.MethodPost, "/addMember", body)
	if err != nil {
		return "", fmt.Errorf("add member: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("add member: status %d", resp.StatusCode)
	}
	text, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("add member: %w", err)
	}
	return strings.TrimSpace(string(text)), nil
}

// GivePoints reports a fuel point award. Fire and forget: the response body
// is ignored and callers treat any error as non-fatal. Outbound calls pass
// the client-side notification limiter.
func (c *Client) GivePoints(ctx context.Context, memberID string, points int64) error {
	if err := c.notifyLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("give points: %w", err)
	}
	path := "/givePoints/" + url.PathEscape(memberID) + "/" + strconv.FormatInt(points, 10)
	resp, err := c.do(ctx, http.MethodPost, path, []byte("{}"))
	if err != nil {
		return fmt.Errorf("give points: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("give points: status %d", resp.StatusCode)
	}
	return nil
}

// WithdrawPoints asks the backend to deduct fuel points and returns how many
// it actually granted, or -1 when the backend reports an error.
func (c *Client) WithdrawPoints(ctx context.Context, memberID string, points int64) (int64, error) {
	path := "/withdrawPoints/" + url.PathEscape(memberID) + "/" + strconv.FormatInt(points, 10)
	resp, err := c.do(ctx, http.MethodPost, path, []byte("{}"))
	if err != nil {
		return -1, fmt.Errorf("withdraw points: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return -1, fmt.Errorf("withdraw points: status %d", resp.StatusCode)
	}
	var granted int64
	if err := json.NewDecoder(resp.Body).Decode(&granted); err != nil {
		return -1, fmt.Errorf("withdraw points: %w", err)
	}
	return granted, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return checkout.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}
