package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/eduprima/eduprima-api/internal/observability"
	"github.com/eduprima/eduprima-api/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionSweep prunes expired session rows.
	TaskSessionSweep = "sessions:sweep"
	// TaskAuditRecord writes an audit log entry off the request path.
	TaskAuditRecord = "audit:record"
)

// AuditRecordPayload describes an audit entry to be persisted.
type AuditRecordPayload struct {
	ActorID  string         `json:"actor_id"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

// NewSessionSweepTask constructs the cron task for session pruning.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSessionSweep, nil)
}

// NewAuditRecordTask constructs an audit record task.
func NewAuditRecordTask(payload AuditRecordPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRecord, data), nil
}

// SessionSweeper prunes expired sessions.
type SessionSweeper interface {
	SweepSessions(ctx context.Context, before time.Time) (int64, error)
}

// NewSessionSweepHandler builds the handler for TaskSessionSweep.
func NewSessionSweepHandler(sweeper SessionSweeper, logger *slog.Logger, metrics *observability.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := sweeper.SweepSessions(ctx, time.Now())
		if err != nil {
			metrics.RecordJob(TaskSessionSweep, "error")
			if logger != nil {
				logger.Error("session sweep", slog.Any("error", err))
			}
			return err
		}
		metrics.RecordJob(TaskSessionSweep, "ok")
		if logger != nil && removed > 0 {
			logger.Info("session sweep", slog.Int64("removed", removed))
		}
		return nil
	}
}

// NewAuditRecordHandler builds the handler for TaskAuditRecord.
func NewAuditRecordHandler(audit *shared.AuditLogger, logger *slog.Logger, metrics *observability.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditRecordPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			metrics.RecordJob(TaskAuditRecord, "skipped")
			return asynq.SkipRetry
		}
		if err := audit.Record(ctx, shared.AuditLog{
			ActorID:  payload.ActorID,
			Action:   payload.Action,
			Entity:   payload.Entity,
			EntityID: payload.EntityID,
			Meta:     payload.Meta,
			At:       payload.At,
		}); err != nil {
			metrics.RecordJob(TaskAuditRecord, "error")
			if logger != nil {
				logger.Error("audit record", slog.Any("error", err))
			}
			return err
		}
		metrics.RecordJob(TaskAuditRecord, "ok")
		return nil
	}
}
