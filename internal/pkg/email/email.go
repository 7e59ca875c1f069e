package email

import (
	"CreatorPulse/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Sender 通知投递的抽象，核心只管把文档交出去
type Sender interface {
	Send(ctx context.Context, subject string, htmlBody string) error
}

// Client 走 JSON 邮件投递 API
type Client struct {
	http *resty.Client
	cfg  config.EmailConfig
}

func NewClient(cfg config.EmailConfig) *Client {
	client := resty.New().
		SetTimeout(15 * time.Second)

	return &Client{
		http: client,
		cfg:  cfg,
	}
}

func (s *Client) Send(ctx context.Context, subject string, htmlBody string) error {
	if s.cfg.URL == "" || s.cfg.To == "" {
		log.WarnContext(ctx, "email delivery not configured, dropping report", "subject", subject)
		return nil
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.cfg.ApiKey).
		SetBody(map[string]interface{}{
			"from":    s.cfg.From,
			"to":      []string{s.cfg.To},
			"subject": subject,
			"html":    htmlBody,
		}).
		Post(s.cfg.URL)
	if err != nil {
		return errors.Wrap(err, "send email")
	}
	if resp.IsError() {
		return errors.Errorf("send email: status %d", resp.StatusCode())
	}

	log.InfoContext(ctx, "report email sent", "subject", subject)
	return nil
}
