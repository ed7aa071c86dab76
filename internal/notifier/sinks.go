package notifier

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/pkg/clients"
)

// LogSink writes events to the application log.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Deliver(_ context.Context, event domain.Event) error {
	zap.L().Info("event",
		zap.String("account", event.AccountID),
		zap.String("kind", string(event.Kind)),
		zap.Any("payload", event.Payload),
		zap.Time("occurred_at", event.OccurredAt))
	return nil
}

type poster interface {
	PostJSON(ctx context.Context, url string, body any, headers http.Header) (int, []byte, error)
}

// WebhookSink posts each event as JSON and expects a 2xx answer.
type WebhookSink struct {
	url    string
	client poster
}

func NewWebhookSink(url string, client poster) *WebhookSink {
	if client == nil {
		client = clients.NewHTTPClient()
	}
	return &WebhookSink{url: url, client: client}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Deliver(ctx context.Context, event domain.Event) error {
	status, _, err := s.client.PostJSON(ctx, s.url, event, nil)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook answered %d", status)
	}
	return nil
}
