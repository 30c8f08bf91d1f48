package alert

import "time"

// Alert is a notification record that a task's due date is approaching.
// Alerts are append-only: created by the daily scan or the on-demand
// evaluator, never mutated.
type Alert struct {
	ID        string    `json:"alertId"`
	TaskID    string    `json:"task_id"`
	AlertDate time.Time `json:"alertDate"`
	Message   string    `json:"message"`
}
