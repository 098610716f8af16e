package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/mail"
)

// Mail templates rendered by the external mailer.
const (
	TemplateVerification  = "verification.html"
	TemplateResetPassword = "reset_password.html"
)

// NotificationService turns account events into mail jobs.
type NotificationService struct {
	dispatcher events.Dispatcher
	outbox     mail.Outbox
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, outbox mail.Outbox, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		outbox:     outbox,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventUserVerified, n.handleUserVerified)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	return n.enqueue(ctx, event, "Verify Your Email", TemplateVerification, map[string]string{
		"username":         payload.Username,
		"verification_url": n.link("auth/verify/", payload.VerificationToken),
	})
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	return n.enqueue(ctx, event, "Reset Your Password", TemplateResetPassword, map[string]string{
		"verification_url": n.link("auth/password_reset_confirm/", payload.ResetToken),
	})
}

func (n *NotificationService) handleUserVerified(_ context.Context, event events.Event) error {
	n.logger.Info("UserVerified", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) enqueue(ctx context.Context, event events.Event, subject, template string, data map[string]string) error {
	if n.outbox == nil || strings.TrimSpace(event.Email) == "" {
		return nil
	}
	job := mail.Job{
		ID:        uuid.NewString(),
		To:        event.Email,
		From:      n.cfg.EmailFrom,
		Subject:   subject,
		Template:  template,
		Data:      data,
		CreatedAt: event.Timestamp,
	}
	if err := n.outbox.Enqueue(ctx, job); err != nil {
		n.logger.Error("mail enqueue failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return err
	}
	return nil
}

func (n *NotificationService) link(path, token string) string {
	domain := n.cfg.Domain
	if domain != "" && !strings.HasSuffix(domain, "/") {
		domain += "/"
	}
	return domain + path + token
}
