// Package riskclient клиент HTTP API оценки риска аварии
package riskclient

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

	"road-risk-go/pkg/models"
)

// ErrServerUnreachable сервер оценки недоступен
var ErrServerUnreachable = errors.New("risk server is unreachable")

// APIError ответ сервера с кодом, отличным от 2xx
type APIError struct {
	StatusCode int
	Response   models.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Error == "" {
		return fmt.Sprintf("risk server returned status %d", e.StatusCode)
	}
	if e.Response.Code == "" {
		return fmt.Sprintf("risk server returned status %d: %s", e.StatusCode, e.Response.Error)
	}
	return fmt.Sprintf("risk server returned status %d (%s): %s", e.StatusCode, e.Response.Code, e.Response.Error)
}

// Client клиент сервиса оценки риска
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент; timeout ограничивает каждый запрос
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict отправляет атрибуты дороги и возвращает оценку риска
func (c *Client) Predict(ctx context.Context, req models.RiskRequest) (*models.RiskResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result models.RiskResponse
	if err := c.do(ctx, http.MethodPost, "/predict", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping проверяет, что сервер запущен
func (c *Client) Ping(ctx context.Context) (string, error) {
	var result models.MessageResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, &apiErr.Response); err != nil {
			apiErr.Response.Error = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
