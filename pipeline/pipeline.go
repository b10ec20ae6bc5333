package pipeline

import "context"

// JobName identifies the daily staging job to the external scheduler.
const JobName = "itsm_data_pipeline"

// Schedule is the cadence the external scheduler is expected to apply.
const Schedule = "@daily"

// Tags mark the job for discovery in the scheduler's catalog.
var Tags = []string{"itsm", "servicenow", "analytics"}

// Task is one unit of work in the chain. Each task reprocesses the full
// dataset, so re-running any of them is safe.
type Task struct {
	Name     string
	Upstream []string
	Run      func(ctx context.Context) error
}

// Definition is the complete job: identity plus the ordered task chain.
// Tasks are strictly serialized; a task only runs after every upstream
// task has succeeded.
type Definition struct {
	JobName  string
	Schedule string
	Tags     []string
	Tasks    []Task
}
