package geoservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Checker интерфейс проверки зоны обслуживания
type Checker interface {
	CheckServiceability(ctx context.Context, lat, lng float64) error
}

// Client клиент геосервиса проверки зоны обслуживания
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента геосервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CheckServiceability проверяет, покрыта ли точка зоной обслуживания.
// Недоступность геосервиса — ErrServiceDegraded: решение пропускать или
// отклонять бронирование принимает вызывающий код по конфигурации.
func (c *Client) CheckServiceability(ctx context.Context, lat, lng float64) error {
	url := fmt.Sprintf("%s/internal/zones/check?lat=%f&lng=%f", c.baseURL, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("[CheckServiceability] Геосервис недоступен: %v", err)
		return fmt.Errorf("%w: %v", ErrServiceDegraded, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= http.StatusInternalServerError:
		c.log.Warn("[CheckServiceability] Геосервис вернул %d", resp.StatusCode)
		return fmt.Errorf("%w: status code %d", ErrServiceDegraded, resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var result ServiceabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !result.Serviceable {
		return ErrNotServiceable
	}

	return nil
}

// NopChecker считает любую точку обслуживаемой (геопроверка выключена)
type NopChecker struct{}

// CheckServiceability всегда успешна
func (NopChecker) CheckServiceability(ctx context.Context, lat, lng float64) error {
	return nil
}
