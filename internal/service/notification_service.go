package service

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/spec-kit/registry-service/internal/events"
	"github.com/spec-kit/registry-service/internal/notify"
	"github.com/spec-kit/registry-service/internal/observability"
)

// NotificationService fans stored submissions out to the configured sinks.
// Failures are logged and counted, never retried or surfaced to the submitter.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifiers  []notify.Notifier
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, notifiers ...notify.Notifier) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifiers:  notifiers,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes one handler per sink; each send runs under the
// dispatcher's handler timeout.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, notifier := range n.notifiers {
		n.dispatcher.Subscribe(events.EventSubmissionCreated, n.handlerFor(notifier))
	}
}

func (n *NotificationService) handlerFor(notifier notify.Notifier) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.SubmissionCreatedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T", event.Payload)
		}
		submission := payload.Submission

		if !notifier.Enabled() {
			n.logger.Debug("notification channel not configured",
				zap.String("channel", notifier.Name()),
				zap.String("submission_id", submission.ID))
			n.metrics.RecordNotification(notifier.Name(), observability.OutcomeSkipped)
			return nil
		}

		if err := notifier.Notify(ctx, submission); err != nil {
			n.logger.Warn("notification failed",
				zap.String("channel", notifier.Name()),
				zap.String("submission_id", submission.ID),
				zap.Error(err))
			n.metrics.RecordNotification(notifier.Name(), observability.OutcomeFailed)
			sentry.CaptureException(fmt.Errorf("%s notification for %s: %w", notifier.Name(), submission.ID, err))
			return nil
		}

		n.metrics.RecordNotification(notifier.Name(), observability.OutcomeDelivered)
		return nil
	}
}
