// Package scryfall is a minimal client for the Scryfall card API.
//
// Only the exact-name lookup is implemented. Each call issues one request;
// there is no caching, batching or retry.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Scryfall API.
const DefaultBaseURL = "https://api.scryfall.com"

// maxBodySize caps how much of a response is read. Card objects are a few KB.
const maxBodySize = 4 << 20

// Card is the subset of a Scryfall card object the cube needs.
type Card struct {
	Name          string     `json:"name"`
	ColorIdentity []string   `json:"color_identity"`
	TypeLine      string     `json:"type_line"`
	OracleText    string     `json:"oracle_text"`
	CMC           float64    `json:"cmc"`
	Power         string     `json:"power,omitempty"`
	Toughness     string     `json:"toughness,omitempty"`
	CardFaces     []CardFace `json:"card_faces,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string `json:"name"`
	TypeLine   string `json:"type_line"`
	OracleText string `json:"oracle_text"`
	Power      string `json:"power,omitempty"`
	Toughness  string `json:"toughness,omitempty"`
}

// errorObject is Scryfall's error response body.
type errorObject struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// NotFoundError means Scryfall has no card with exactly this name.
type NotFoundError struct {
	Name    string
	Details string
}

func (e *NotFoundError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("card not found: %q: %s", e.Name, e.Details)
	}
	return fmt.Sprintf("card not found: %q", e.Name)
}

// TransportError means the lookup could not be completed: the service was
// unreachable, answered with an unexpected status, or sent an unreadable body.
type TransportError struct {
	Name   string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("card service unavailable for %q (status %d): %v", e.Name, e.Status, e.Err)
	}
	return fmt.Sprintf("card service unavailable for %q: %v", e.Name, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client looks cards up by exact name.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header Scryfall asks callers to send.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "PauperCube/1.0",
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Named fetches the card whose name is exactly name.
func (c *Client) Named(ctx context.Context, name string) (*Card, error) {
	endpoint := c.baseURL + "/cards/named?exact=" + url.QueryEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Name: name, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Name: name, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		var eo errorObject
		_ = json.Unmarshal(body, &eo)
		return nil, &NotFoundError{Name: name, Details: eo.Details}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eo errorObject
		detail := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &eo) == nil && eo.Details != "" {
			detail = eo.Details
		}
		return nil, &TransportError{Name: name, Status: resp.StatusCode, Err: errors.New(detail)}
	}

	var card Card
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, &TransportError{Name: name, Status: resp.StatusCode, Err: fmt.Errorf("decode card: %w", err)}
	}
	card.fillFromFaces()

	return &card, nil
}

// fillFromFaces copies rules text and power/toughness up from the faces of
// multi-faced cards, which carry them per face instead of at the top level.
func (c *Card) fillFromFaces() {
	if len(c.CardFaces) == 0 {
		return
	}
	if c.OracleText == "" {
		texts := make([]string, 0, len(c.CardFaces))
		for _, f := range c.CardFaces {
			texts = append(texts, f.OracleText)
		}
		c.OracleText = strings.Join(texts, "\n//\n")
	}
	if c.Power == "" && c.Toughness == "" {
		for _, f := range c.CardFaces {
			if f.Power != "" || f.Toughness != "" {
				c.Power, c.Toughness = f.Power, f.Toughness
				break
			}
		}
	}
}
