// Package jobs holds the background task definitions and the Asynq worker
// wrapper.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSalesLedgerAudit re-checks stored sale totals against their line
	// items.
	TaskSalesLedgerAudit = "sales:ledger_audit"
)

// LedgerAuditPayload bounds the audit to sales written in the trailing
// window. Zero means all sales.
type LedgerAuditPayload struct {
	WindowDays int `json:"windowDays"`
}

// NewLedgerAuditTask constructs an Asynq task.
func NewLedgerAuditTask(payload LedgerAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSalesLedgerAudit, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueLedgerAudit enqueues a ledger audit task.
func (c *Client) EnqueueLedgerAudit(ctx context.Context, payload LedgerAuditPayload) (*asynq.TaskInfo, error) {
	task, err := NewLedgerAuditTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
