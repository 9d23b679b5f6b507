// Package whatsapp is a send-only client for a WhatsApp HTTP gateway.
// Session bootstrap (QR pairing) and inbound message handling live in the
// gateway process, not here.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "http://localhost:3000"

// Client sends outbound messages through the gateway.
type Client interface {
	Send(ctx context.Context, recipient, text string) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default gateway URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NormalizeRecipient folds a raw phone number or chat id into the canonical
// addressable form the gateway expects: digits followed by "@c.us".
func NormalizeRecipient(raw string) string {
	if strings.HasSuffix(raw, "@c.us") {
		return raw
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String() + "@c.us"
}

type sendRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

func (c *httpClient) Send(ctx context.Context, recipient, text string) error {
	body, err := json.Marshal(sendRequest{
		ChatID:  NormalizeRecipient(recipient),
		Message: text,
	})
	if err != nil {
		return eris.Wrap(err, "whatsapp: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sendText", bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "whatsapp: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "whatsapp: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return eris.Errorf("whatsapp: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
