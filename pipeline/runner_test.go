package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyFailure(jobName, taskName string, err error) {
	n.calls = append(n.calls, taskName)
}

func newTestRunner(notifier Notifier) *Runner {
	return &Runner{
		Retries:    1,
		RetryDelay: time.Millisecond,
		Notifier:   notifier,
		Logger:     zap.NewNop(),
	}
}

func chain(tasks ...Task) Definition {
	return Definition{JobName: JobName, Schedule: Schedule, Tags: Tags, Tasks: tasks}
}

func TestRun_ExecutesTasksInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	step := func(name string) Task {
		return Task{Name: name, Run: func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	runner := newTestRunner(nil)
	err := runner.Run(context.Background(), chain(step("a"), step("b"), step("c")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("unexpected execution order: %v", order)
	}
}

func TestRun_RetriesOnceThenSucceeds(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	attempts := 0
	flaky := Task{Name: "flaky", Run: func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	}}

	runner := newTestRunner(notifier)
	if err := runner.Run(context.Background(), chain(flaky)); err != nil {
		t.Fatalf("expected recovery on retry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("recovered task must not notify, got %v", notifier.calls)
	}
}

func TestRun_ExhaustedFailureNotifiesOnceAndAborts(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	attempts := 0
	broken := Task{Name: "broken", Run: func(ctx context.Context) error {
		attempts++
		return errors.New("boom")
	}}
	downstreamRan := false
	downstream := Task{Name: "downstream", Run: func(ctx context.Context) error {
		downstreamRan = true
		return nil
	}}

	runner := newTestRunner(notifier)
	err := runner.Run(context.Background(), chain(broken, downstream))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if attempts != 2 {
		t.Fatalf("expected initial attempt plus one retry, got %d attempts", attempts)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "broken" {
		t.Fatalf("expected one notification for broken task, got %v", notifier.calls)
	}
	if downstreamRan {
		t.Fatalf("downstream task must not run after an aborted chain")
	}
}

func TestRun_CancelledContextStopsRetryWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	failing := Task{Name: "failing", Run: func(taskCtx context.Context) error {
		cancel()
		return errors.New("boom")
	}}

	runner := &Runner{
		Retries:    1,
		RetryDelay: time.Hour,
		Logger:     zap.NewNop(),
	}

	start := time.Now()
	err := runner.Run(ctx, chain(failing))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("retry wait ignored cancellation, took %v", elapsed)
	}
}

func TestNewDefinition_DependencyChain(t *testing.T) {
	t.Parallel()

	def := NewDefinition(testConfig(), zap.NewNop())

	if def.JobName != "itsm_data_pipeline" {
		t.Fatalf("unexpected job name: %q", def.JobName)
	}
	if def.Schedule != "@daily" {
		t.Fatalf("unexpected schedule: %q", def.Schedule)
	}

	expected := []string{
		TaskExtract,
		TaskCreateStaging,
		TaskLoad,
		TaskQualityChecks,
		TaskDbtRun,
		TaskDbtTest,
	}
	if len(def.Tasks) != len(expected) {
		t.Fatalf("expected %d tasks, got %d", len(expected), len(def.Tasks))
	}
	for i, task := range def.Tasks {
		if task.Name != expected[i] {
			t.Fatalf("task %d: expected %q, got %q", i, expected[i], task.Name)
		}
		if i == 0 {
			if len(task.Upstream) != 0 {
				t.Fatalf("first task must have no upstream, got %v", task.Upstream)
			}
			continue
		}
		if len(task.Upstream) != 1 || task.Upstream[0] != expected[i-1] {
			t.Fatalf("task %q: expected upstream %q, got %v", task.Name, expected[i-1], task.Upstream)
		}
	}
}
