package background

import (
	"context"
	"log/slog"
	"time"
)

// Task is one periodic cleanup job. Run returns how many records it removed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// TempPasswordPurger drops plain temporary passwords issued before a cutoff.
type TempPasswordPurger interface {
	PurgeExpiredTempPasswords(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExpiredRevocationCleaner forgets revocations of tokens that have expired.
type ExpiredRevocationCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// TempPasswordTask purges temporary passwords older than ttl.
func TempPasswordTask(accounts TempPasswordPurger, ttl time.Duration) Task {
	return Task{
		Name: "temp_passwords",
		Run: func(ctx context.Context) (int64, error) {
			return accounts.PurgeExpiredTempPasswords(ctx, time.Now().Add(-ttl))
		},
	}
}

// RevocationTask prunes the token revocation list.
func RevocationTask(store ExpiredRevocationCleaner) Task {
	return Task{
		Name: "revoked_tokens",
		Run:  store.CleanupExpired,
	}
}

// CleanupManager runs its tasks once on start and then every interval.
type CleanupManager struct {
	tasks    []Task
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(logger *slog.Logger, interval time.Duration, tasks ...Task) *CleanupManager {
	return &CleanupManager{
		tasks:    tasks,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup. It blocks until Stop is called or ctx ends.
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	for _, task := range cm.tasks {
		cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		removed, err := task.Run(cleanupCtx)
		cancel()

		if err != nil {
			cm.logger.ErrorContext(ctx, "cleanup task failed", slog.String("task", task.Name), slog.Any("error", err))
			continue
		}
		if removed > 0 {
			cm.logger.InfoContext(ctx, "cleanup task completed", slog.String("task", task.Name), slog.Int64("removed", removed))
		}
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
