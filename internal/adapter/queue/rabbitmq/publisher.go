package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
)

// taskEvent is the wire shape published to the events exchange.
type taskEvent struct {
	Event string       `json:"event"`
	Task  *domain.Task `json:"task"`
}

// PublishTaskEvent emits a task lifecycle event ("task.created",
// "task.assigned", "task.completed") using the event name as routing key, so
// downstream consumers can bind only to what they care about.
func (b *Broker) PublishTaskEvent(ctx context.Context, event string, task *domain.Task) error {
	body, err := json.Marshal(taskEvent{Event: event, Task: task})
	if err != nil {
		return err
	}

	err = b.ch.PublishWithContext(ctx,
		eventExchange, // Exchange
		event,         // Routing key
		false,         // Mandatory
		false,         // Immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Priority:    eventPriority(task),
		})

	if err != nil {
		b.log.Error("Failed to publish task event", zap.String("event", event), zap.Error(err))
		return err
	}

	b.log.Debug("Published task event",
		zap.String("event", event),
		zap.String("task_id", task.ID),
		zap.String("room", task.RoomNumber))
	return nil
}

// eventPriority maps the task's coarse level onto the AMQP message priority.
func eventPriority(task *domain.Task) uint8 {
	switch task.PriorityLevel {
	case domain.PriorityLevelHigh:
		return 9
	case domain.PriorityLevelMedium:
		return 5
	default:
		return 1
	}
}
