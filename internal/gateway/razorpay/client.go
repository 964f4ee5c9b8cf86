// Package razorpay is the payment-gateway adapter. It creates remote
// payment orders over REST and verifies the gateway's webhook signatures.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

const DefaultBaseURL = "https://api.razorpay.com/v1"

type Client struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpc         *http.Client
}

func New(keyID, keySecret, webhookSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
		httpc:         &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder creates a remote payment order for the given amount in minor
// units and returns its id.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	res, err := c.httpc.Do(req)
	if err != nil {
		return "", apperr.Gatewayf("payment gateway unreachable: %v", err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", apperr.Gatewayf("create payment order failed: %s (%d)", string(raw), res.StatusCode)
	}

	var out createOrderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse payment order response: %w", err)
	}
	if out.ID == "" {
		return "", apperr.Gatewayf("payment order response missing id")
	}
	return out.ID, nil
}

// VerifyWebhookSignature recomputes the HMAC-SHA256 of the raw body with
// the shared webhook secret and compares it to the header value in
// constant time.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// Sign produces the signature the gateway would send for body. Test helper.
func (c *Client) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
