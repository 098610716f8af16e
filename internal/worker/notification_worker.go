package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/mail"
	"github.com/spec-kit/shop-service/internal/service"
)

// StartNotificationWorker registers notification handlers and closes the outbox when
// ctx is cancelled. The returned channel is closed once the outbox has been released.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, outbox mail.Outbox, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if outbox == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		<-ctx.Done()
		if err := outbox.Close(); err != nil {
			logger.Warn("closing mail outbox", zap.Error(err))
		}
	}()
	return done
}
