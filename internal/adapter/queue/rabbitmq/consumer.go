package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
)

// ConsumeCheckouts listens on the checkouts queue and hands each event to the
// handler. Validation and conflict rejections are acked and dropped (the
// event is wrong, redelivery cannot fix it); other handler errors requeue.
func (b *Broker) ConsumeCheckouts(ctx context.Context, handler func(domain.CheckoutInput) error) error {
	_, err := b.ch.QueueDeclare(
		checkoutQueue, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := b.ch.Consume(
		checkoutQueue, // queue
		"",            // consumer
		false,         // auto-ack (ack manually after the task is created)
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return err
	}

	b.log.Info("Started consuming checkout events", zap.String("queue", checkoutQueue))

	go func() {
		for d := range msgs {
			var input domain.CheckoutInput
			if err := json.Unmarshal(d.Body, &input); err != nil {
				b.log.Error("Failed to unmarshal checkout event", zap.Error(err))
				d.Nack(false, false) // discard invalid message
				continue
			}

			if err := handler(input); err != nil {
				if rejectable(err) {
					b.log.Warn("Checkout event rejected",
						zap.String("room", input.RoomNumber),
						zap.Error(err))
					d.Ack(false)
					continue
				}
				b.log.Error("Checkout handling failed", zap.Error(err))
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}()

	return nil
}

func rejectable(err error) bool {
	return errors.Is(err, domain.ErrMissingRoomNumber) ||
		errors.Is(err, domain.ErrInvalidRoomNumber) ||
		errors.Is(err, domain.ErrRoomAlreadyQueued)
}
