// Package whois узнаёт срок регистрации домена через HTTP API поиска WHOIS.
package whois

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/metrics"
)

// DefaultTimeout ограничивает один запрос
const DefaultTimeout = 10 * time.Second

const userAgent = "VaultMail/1.0 (domain-expiration-check)"

// expirationLayouts по очереди применяются к result.expirationDate
var expirationLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Client обращается к API поиска WHOIS
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиент WHOIS
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type lookupResponse struct {
	Result *struct {
		ExpirationDate *string `json:"expirationDate"`
	} `json:"result"`
}

// Expiration возвращает срок регистрации домена.
// При любой ошибке (сеть, статус, тело, нет даты или она не разбирается) возвращает nil.
func (c *Client) Expiration(ctx context.Context, domain string) *time.Time {
	expiresAt, err := c.lookup(ctx, domain)
	if err != nil {
		c.logger.Warn("WHOIS lookup failed", zap.String("domain", domain), zap.Error(err))
	}
	metrics.RecordWhoisLookup(expiresAt != nil)
	return expiresAt
}

func (c *Client) lookup(ctx context.Context, domain string) (*time.Time, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid WHOIS URL: %w", err)
	}
	q := u.Query()
	q.Set("query", domain)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("WHOIS API status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode WHOIS response: %w", err)
	}
	if body.Result == nil || body.Result.ExpirationDate == nil || *body.Result.ExpirationDate == "" {
		// Отсутствие даты это обычный исход, не ошибка
		return nil, nil
	}

	return parseExpiration(*body.Result.ExpirationDate)
}

func parseExpiration(raw string) (*time.Time, error) {
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable expiration date %q", raw)
}
