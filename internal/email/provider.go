package email

import (
	"context"
	"log/slog"
	"strings"

	"storefront_backend/internal/logger"
)

// Provider отправляет одно письмо
type Provider interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// NewProvider выбирает SMTP, если он настроен, иначе письма только логируются
func NewProvider(cfg Config, revealBodies bool) Provider {
	if cfg.Configured() {
		return NewSMTPProvider(cfg)
	}
	logger.Warn("SMTP не настроен, письма будут только логироваться")
	return NewLogProvider(revealBodies)
}

// LogProvider пишет письмо в лог вместо отправки
type LogProvider struct {
	revealBodies bool
}

// NewLogProvider: revealBodies - выводить текст письма (коды OTP) в лог, только для разработки
func NewLogProvider(revealBodies bool) *LogProvider {
	return &LogProvider{revealBodies: revealBodies}
}

func (p *LogProvider) Name() string { return "log" }

func (p *LogProvider) Send(ctx context.Context, msg Message) error {
	attrs := []any{slog.String("to", msg.To), slog.String("subject", msg.Subject)}
	if p.revealBodies {
		attrs = append(attrs, slog.String("body", strings.TrimSpace(msg.TextBody)))
	}
	logger.CtxInfo(ctx, "Письмо не отправлено (SMTP не настроен)", attrs...)
	return nil
}
