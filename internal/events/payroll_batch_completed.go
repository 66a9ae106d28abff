package events

import "time"

const PayrollBatchCompletedTopic = "hr.payroll.batch.completed.v1"

// PayrollBatchCompletedEvent announces the outcome of a generation
// run so downstream reporting can pick the month up.
type PayrollBatchCompletedEvent struct {
	EventType   string    `json:"event_type"`
	Month       string    `json:"month"`
	Processed   int       `json:"processed"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	ProcessedBy string    `json:"processed_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
