// Package monime talks to the Monime payment provider: a credential
// probe for the settings page and signature verification for inbound
// webhooks.
package monime

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Client is a thin Monime API client
type Client struct {
	client  *resty.Client
	baseURL string
}

// NewClient initializes a resty client against the given base URL
func NewClient(baseURL string) *Client {
	c := resty.New().SetTimeout(10 * time.Second)
	return &Client{client: c, baseURL: baseURL}
}

// Probe checks the stored space id and API key against the provider.
// A non-2xx response or transport error means the credentials are bad.
func (c *Client) Probe(ctx context.Context, spaceID, apiKey string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetHeader("Monime-Space-Id", spaceID).
		Get(c.baseURL + "/v1/spaces/current")
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Monime probe failed")
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("monime returned %s", resp.Status())
	}
	return nil
}

// VerifySignature checks the webhook HMAC-SHA256 signature over the raw
// body against the stored webhook secret.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
