package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Notifier is told about a task that failed all of its attempts.
// Retried-then-recovered tasks trigger no notification.
type Notifier interface {
	NotifyFailure(jobName, taskName string, err error)
}

// LogNotifier is the default notification surface: it records the
// failure and the configured recipients for an external mailer to act on.
type LogNotifier struct {
	Logger *zap.Logger
	Emails []string
}

func (n *LogNotifier) NotifyFailure(jobName, taskName string, err error) {
	n.Logger.Error("pipeline task failed after all retries",
		zap.String("job", jobName),
		zap.String("task", taskName),
		zap.Strings("notify", n.Emails),
		zap.Error(err),
	)
}

// Runner executes a job's tasks in order with a uniform retry policy:
// each task gets Retries additional attempts, RetryDelay apart. A task
// that exhausts its attempts aborts the chain.
type Runner struct {
	Retries    int
	RetryDelay time.Duration
	Notifier   Notifier
	Logger     *zap.Logger
}

// Run executes the definition's task chain. Returns the first
// unrecovered task error, or nil when every task succeeded.
func (r *Runner) Run(ctx context.Context, def Definition) error {
	for _, task := range def.Tasks {
		if err := r.runTask(ctx, def.JobName, task); err != nil {
			if r.Notifier != nil {
				r.Notifier.NotifyFailure(def.JobName, task.Name, err)
			}
			return fmt.Errorf("task %s: %w", task.Name, err)
		}
	}

	r.Logger.Info("pipeline run completed",
		zap.String("job", def.JobName),
		zap.Int("tasks", len(def.Tasks)),
	)
	return nil
}

func (r *Runner) runTask(ctx context.Context, jobName string, task Task) error {
	attempts := r.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		r.Logger.Info("running task",
			zap.String("job", jobName),
			zap.String("task", task.Name),
			zap.Int("attempt", attempt),
		)

		lastErr = task.Run(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt < attempts {
			r.Logger.Warn("task failed, retrying",
				zap.String("task", task.Name),
				zap.Duration("delay", r.RetryDelay),
				zap.Error(lastErr),
			)
			if err := sleepContext(ctx, r.RetryDelay); err != nil {
				return err
			}
		}
	}

	return lastErr
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
