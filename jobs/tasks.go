package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fundbridge-kh/fundbridge/internal/audit"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeRecordDecision is the task type for persisting authorization
	// decisions into the audit trail.
	TaskTypeRecordDecision = "audit:record_decision"
)

// RecordDecisionPayload carries one resolved authorization decision.
type RecordDecisionPayload struct {
	ActorID     string    `json:"actor_id"`
	Permission  string    `json:"permission"`
	Allowed     bool      `json:"allowed"`
	Reason      string    `json:"reason"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// NewRecordDecisionTask constructs an Asynq task.
func NewRecordDecisionTask(payload RecordDecisionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRecordDecision, data), nil
}

// NewRecordDecisionHandler returns the worker-side handler that writes
// decisions into Postgres.
func NewRecordDecisionHandler(repo audit.Repository, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RecordDecisionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		err := repo.Insert(ctx, audit.Entry{
			ActorID:     payload.ActorID,
			Permission:  payload.Permission,
			Allowed:     payload.Allowed,
			Reason:      payload.Reason,
			EvaluatedAt: payload.EvaluatedAt,
		})
		if err != nil && logger != nil {
			logger.Error("record decision", slog.Any("error", err))
		}
		return err
	}
}
