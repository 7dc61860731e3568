package services

import (
	"context"
	"time"

	"storefront_backend/internal/email"
	"storefront_backend/internal/logger"
)

// MailDispatcher - неблокирующая постановка письма в очередь (workers.MailWorker)
type MailDispatcher interface {
	Enqueue(ctx context.Context, msg email.Message) bool
}

// EmailService собирает транзакционные письма и отдает их в очередь.
// Ошибки доставки никогда не возвращаются вызывающему.
type EmailService struct {
	templates  *email.Templates
	dispatcher MailDispatcher
	otpExpiry  time.Duration
}

func NewEmailService(templates *email.Templates, dispatcher MailDispatcher, otpExpiry time.Duration) *EmailService {
	return &EmailService{
		templates:  templates,
		dispatcher: dispatcher,
		otpExpiry:  otpExpiry,
	}
}

// SendOTP - код подтверждения email
func (s *EmailService) SendOTP(ctx context.Context, to, name, code string) {
	s.dispatch(ctx, email.TemplateOTPVerification, to, name, code)
}

// SendPasswordReset - код сброса пароля
func (s *EmailService) SendPasswordReset(ctx context.Context, to, name, code string) {
	s.dispatch(ctx, email.TemplatePasswordReset, to, name, code)
}

func (s *EmailService) dispatch(ctx context.Context, template, to, name, code string) {
	if name == "" {
		name = "User"
	}
	msg, err := s.templates.Render(template, to, email.CodeData{
		Name:          name,
		Code:          code,
		ExpiryMinutes: int(s.otpExpiry / time.Minute),
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to render email", err, "template", template, "to", to)
		return
	}
	if !s.dispatcher.Enqueue(ctx, msg) {
		logger.CtxWarn(ctx, "Email was not queued", "template", template, "to", to)
	}
}
