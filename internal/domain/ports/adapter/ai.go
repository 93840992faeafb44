package adapter

import "context"

// TaskEstimate is the model's guess for one described tailoring task.
type TaskEstimate struct {
	Summary string `json:"task_summary"`
	Minutes int    `json:"estimated_minutes"`
}

type EstimateAdapter interface {
	// EstimateTask turns a free-form task description into a time estimate.
	EstimateTask(ctx context.Context, description string) (TaskEstimate, error)
}
