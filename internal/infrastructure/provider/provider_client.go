package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

// Client — клиент справочника поставщиков с retry-логикой и экспоненциальной задержкой.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	logger     logger.Logger
}

func NewClient(cfg *cfg.ProviderCfg, logger logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

type providerModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type providersResponse struct {
	Providers []providerModel `json:"providers"`
}

// ProviderNames возвращает названия поставщиков по их идентификаторам.
// Неизвестные справочнику идентификаторы в ответе отсутствуют.
func (c *Client) ProviderNames(ctx context.Context, ids []string) (map[string]string, error) {
	const (
		op         = "provider.Client.ProviderNames"
		baseJitter = 500 * time.Millisecond
		maxJitter  = 10 * time.Second
	)

	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		names, err := c.fetchNames(ctx, ids)
		if err == nil {
			return names, nil
		}
		lastErr = err

		if attempt == c.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		c.logger.Warnf("provider lookup failed, retrying in %v (attempt %d)", sleepTime, attempt+1)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", c.maxRetries, lastErr))
}

func (c *Client) fetchNames(ctx context.Context, ids []string) (map[string]string, error) {
	const op = "provider.Client.fetchNames"

	endpoint := fmt.Sprintf(
		"%s/api/v1/providers?ids=%s",
		c.baseURL,
		url.QueryEscape(strings.Join(ids, ",")),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.Wrap(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body providersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, e.Wrap(op, err)
	}

	names := make(map[string]string, len(body.Providers))
	for _, p := range body.Providers {
		names[p.ID] = p.Name
	}

	return names, nil
}
