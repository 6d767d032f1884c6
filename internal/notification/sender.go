package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/estimate-service/internal/config"
	apperrors "github.com/spec-kit/estimate-service/pkg/util"
)

// Email is one transactional message handed to the provider.
type Email struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text"`
}

// Sender delivers transactional email through an external provider.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// NewSender returns a provider-backed sender when an endpoint is
// configured, otherwise a logging stub.
func NewSender(cfg config.NotificationConfig, logger *zap.Logger) Sender {
	if cfg.ProviderURL == "" {
		logger.Warn("NOTIFY_PROVIDER_URL not set; email delivery disabled")
		return &logSender{logger: logger}
	}
	return &httpSender{
		endpoint: cfg.ProviderURL,
		apiKey:   cfg.ProviderKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// httpSender posts messages to a JSON-over-HTTP email provider.
type httpSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func (s *httpSender) Send(ctx context.Context, email Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.NewUpstreamFailure("email provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewUpstreamFailure("email provider",
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}
	return nil
}

// logSender records the message instead of delivering it.
type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(_ context.Context, email Email) error {
	s.logger.Info("email delivery skipped",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
	)
	return nil
}
