package jobs

import (
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/fundbridge-kh/fundbridge/internal/authz"
)

// DecisionRecorder ships resolved decisions to the audit queue. Enqueueing
// is fire-and-forget: a full or unreachable queue must never fail the
// request that produced the decision.
type DecisionRecorder struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewDecisionRecorder constructs a DecisionRecorder.
func NewDecisionRecorder(client *asynq.Client, logger *slog.Logger) *DecisionRecorder {
	return &DecisionRecorder{client: client, logger: logger}
}

// RecordDecision implements authz.DecisionSink.
func (r *DecisionRecorder) RecordDecision(actorID string, decision authz.Decision) {
	if r == nil || r.client == nil {
		return
	}
	task, err := NewRecordDecisionTask(RecordDecisionPayload{
		ActorID:     actorID,
		Permission:  decision.Permission,
		Allowed:     decision.Allowed,
		Reason:      string(decision.Reason),
		EvaluatedAt: decision.EvaluatedAt,
	})
	if err != nil {
		r.log("build decision task", err)
		return
	}
	if _, err := r.client.Enqueue(task, asynq.Queue(QueueDefault)); err != nil {
		r.log("enqueue decision task", err)
	}
}

func (r *DecisionRecorder) log(msg string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, slog.Any("error", err))
	}
}
