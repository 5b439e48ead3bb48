package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ModelAPIClient клиент внешнего сервера модели (например, Python FastAPI с обученной моделью)
type ModelAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// scoreRequest тело запроса к серверу модели
type scoreRequest struct {
	Features []float64 `json:"features"`
}

// scoreResponse ответ сервера модели
type scoreResponse struct {
	Score *float64 `json:"score"`
}

// NewModelAPIClient создает новый клиент сервера модели
func NewModelAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *ModelAPIClient {
	return &ModelAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Score отправляет вектор признаков на сервер модели и возвращает оценку
func (c *ModelAPIClient) Score(ctx context.Context, features []float64) (float64, error) {
	body, err := json.Marshal(scoreRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("failed to encode score request: %w", err)
	}

	url := fmt.Sprintf("%s/score", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugf("Отправка POST запроса на %s", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var apiResponse scoreResponse
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return 0, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if apiResponse.Score == nil {
		return 0, fmt.Errorf("model API response has no score")
	}
	if math.IsNaN(*apiResponse.Score) || math.IsInf(*apiResponse.Score, 0) {
		return 0, fmt.Errorf("model API returned non-finite score")
	}

	return *apiResponse.Score, nil
}

// Name возвращает имя бэкенда
func (c *ModelAPIClient) Name() string {
	return "http:" + c.baseURL
}

// CheckHealth проверяет состояние сервера модели
func (c *ModelAPIClient) CheckHealth(ctx context.Context) error {
	c.logger.Debug("Проверка здоровья сервера модели")

	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model API health returned status %d", resp.StatusCode)
	}
	return nil
}
