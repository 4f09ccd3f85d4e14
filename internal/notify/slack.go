package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

// Slack отправляет сообщения во входящий вебхук Slack
type Slack struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlack создаёт отправителя для Slack. Возвращает nil, если вебхук не настроен.
func NewSlack(webhookURL string, timeout time.Duration) *Slack {
	if webhookURL == "" {
		return nil
	}
	return &Slack{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send отправляет текст в вебхук
func (s *Slack) Send(ctx context.Context, text string) error {
	return slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.httpClient, &slack.WebhookMessage{
		Text: text,
	})
}
