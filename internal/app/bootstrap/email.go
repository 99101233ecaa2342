package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/material-scheduler/internal/config"
	"github.com/wolfman30/material-scheduler/internal/notify"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// Email providers accepted by EMAIL_PROVIDER.
const (
	EmailProviderStub     = "stub"
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
)

// BuildEmailSender returns the confirmation email transport. Misconfigured
// providers fall back to the stub so bookings keep working.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, logger *logging.Logger) (notify.EmailSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider)); provider {
	case "", EmailProviderStub:
		return notify.NewStubEmailSender(logger), nil
	case EmailProviderSendGrid:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY empty; using stub email sender")
			return notify.NewStubEmailSender(logger), nil
		}
		return sender, nil
	case EmailProviderSES:
		if loadAWS == nil {
			return nil, fmt.Errorf("bootstrap: email provider ses needs aws config")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail:        cfg.EmailFrom,
			FromName:         cfg.EmailFromName,
			ConfigurationSet: cfg.SESConfigSet,
		}, logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown email provider %q", provider)
	}
}
