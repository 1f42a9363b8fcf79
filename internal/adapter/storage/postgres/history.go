// Package postgres archives completed tasks outside the live in-memory
// queue. The archive is an audit sink: the engine never reads it back to
// drive dispatch decisions.
package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
)

type historyArchive struct {
	db  *pgxpool.Pool
	qb  *squirrel.StatementBuilderType
	log *zap.Logger
}

// NewHistoryArchive creates a postgres-backed completion archive.
func NewHistoryArchive(db *pgxpool.Pool, qb *squirrel.StatementBuilderType, log *zap.Logger) port.HistoryArchive {
	return &historyArchive{
		db:  db,
		qb:  qb,
		log: log,
	}
}

func (a *historyArchive) Record(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO task_history (id, room_number, room_type, floor, priority, priority_level, next_guest_vip, assigned_to, checkout_time, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := a.db.Exec(ctx, query,
		task.ID, task.RoomNumber, task.RoomType, task.Floor, task.Priority,
		task.PriorityLevel, task.NextGuestVIP, task.AssignedTo, task.CheckoutTime, task.UpdatedAt)

	if err != nil {
		a.log.Error("Failed to archive task", zap.String("task_id", task.ID), zap.Error(err))
		return err
	}
	return nil
}

func (a *historyArchive) ListRecent(ctx context.Context, limit int) ([]*domain.Task, error) {
	sql, args, err := a.qb.
		Select("id", "room_number", "room_type", "floor", "priority", "priority_level", "next_guest_vip", "assigned_to", "checkout_time", "completed_at").
		From("task_history").
		OrderBy("completed_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.RoomNumber, &t.RoomType, &t.Floor, &t.Priority,
			&t.PriorityLevel, &t.NextGuestVIP, &t.AssignedTo, &t.CheckoutTime, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.TaskStatusComplete
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}
