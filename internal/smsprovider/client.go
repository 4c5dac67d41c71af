// Package smsprovider HTTP-клиент провайдера SMS-рассылки.
package smsprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/webshop/internal/config"
)

// Client отправляет SMS через JSON API провайдера.
type Client struct {
	apiURL     string
	apiKey     string
	sender     string
	httpClient *http.Client
}

// NewClient создаёт клиент по настройкам провайдера.
func NewClient(cfg config.SMSProvider) *Client {
	return &Client{
		apiURL:     strings.TrimRight(cfg.SMSProviderURL, "/"),
		apiKey:     cfg.SMSAPIKey,
		sender:     cfg.SMSSender,
		httpClient: &http.Client{Timeout: cfg.SMSTimeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Send отправляет одно сообщение.
func (c *Client) Send(ctx context.Context, to, text string) (*SendResponse, error) {
	const op = "smsprovider.Send"
	req, err := c.newRequest(ctx, http.MethodPost, "/messages", SendRequest{From: c.sender, To: to, Text: text})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w", op, &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}

	var sendResp SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return &sendResp, nil
}
