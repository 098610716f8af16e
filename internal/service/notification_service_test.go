package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/events"
)

func TestNotificationServiceBuildsLinks(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	outbox := &recordingOutbox{}
	NewNotificationService(dispatcher, outbox, zap.NewNop(), config.NotificationConfig{
		EmailFrom: "shop@example.com",
		Domain:    "https://shop.example.com",
	}).RegisterHandlers()

	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:      events.EventUserRegistered,
		Email:     "alice@example.com",
		Timestamp: now,
		Payload:   events.UserRegisteredPayload{Username: "alice", VerificationToken: "tok-1"},
	}))
	job, ok := outbox.last()
	require.True(t, ok)
	assert.Equal(t, TemplateVerification, job.Template)
	assert.Equal(t, "https://shop.example.com/auth/verify/tok-1", job.Data["verification_url"])
	assert.Equal(t, "shop@example.com", job.From)
	assert.True(t, job.CreatedAt.Equal(now))

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventPasswordResetRequested,
		Email:   "alice@example.com",
		Payload: events.PasswordResetRequestedPayload{ResetToken: "tok-2"},
	}))
	job, ok = outbox.last()
	require.True(t, ok)
	assert.Equal(t, TemplateResetPassword, job.Template)
	assert.Equal(t, "https://shop.example.com/auth/password_reset_confirm/tok-2", job.Data["verification_url"])

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventUserVerified, Email: "alice@example.com"}))
	assert.Len(t, outbox.jobs, 2)
}

func TestNotificationServiceReportsOutboxFailure(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	outbox := &recordingOutbox{err: assert.AnError}
	NewNotificationService(dispatcher, outbox, zap.NewNop(), config.NotificationConfig{}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventPasswordResetRequested,
		Email:   "alice@example.com",
		Payload: events.PasswordResetRequestedPayload{ResetToken: "tok"},
	})
	assert.ErrorIs(t, err, assert.AnError)
}
