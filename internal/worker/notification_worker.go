package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/registry-service/internal/ratelimit"
	"github.com/spec-kit/registry-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartRateLimitSweeper evicts expired rate-limit windows every interval
// until ctx is cancelled. The returned channel closes when the loop exits.
func StartRateLimitSweeper(ctx context.Context, limiter *ratelimit.MemoryLimiter, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if limiter == nil || interval <= 0 {
		close(done)
		return done
	}

	logger.Info("rate limit sweeper started", zap.Duration("interval", interval))
	go func() {
		defer close(done)
		limiter.Run(ctx, interval)
		logger.Info("rate limit sweeper stopped", zap.Int("tracked_keys", limiter.Len()))
	}()
	return done
}
