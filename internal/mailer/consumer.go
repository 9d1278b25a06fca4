package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"cv-insight/internal/constants"
	"cv-insight/internal/storage"
)

// sendTimeout bounds one delivery attempt; a nacked message is requeued.
const sendTimeout = 30 * time.Second

// Consumer drains the contact-event queue and turns each event into an
// email. Failed sends are requeued by the broker.
type Consumer struct {
	queue  *storage.RabbitMQ
	db     *storage.MySQL
	sender EmailSender
	logger zerolog.Logger
}

// NewConsumer wires the queue consumer. db may be nil; sent-flag bookkeeping
// is then skipped.
func NewConsumer(queue *storage.RabbitMQ, db *storage.MySQL, sender EmailSender, logger zerolog.Logger) *Consumer {
	return &Consumer{
		queue:  queue,
		db:     db,
		sender: sender,
		logger: logger,
	}
}

// Start declares the contact topology and begins consuming. The returned
// channel stops the consumer when closed.
func (c *Consumer) Start(prefetchCount int) (chan<- struct{}, error) {
	if err := c.queue.EnsureExchange(constants.ContactExchange, "direct", true); err != nil {
		return nil, err
	}
	if err := c.queue.EnsureQueue(constants.ContactQueue, true); err != nil {
		return nil, err
	}
	if err := c.queue.BindQueue(constants.ContactQueue, constants.ContactExchange, constants.ContactRoutingKey); err != nil {
		return nil, err
	}

	return c.queue.StartConsumer(constants.ContactQueue, prefetchCount, c.handle)
}

// handle processes one delivery. Returning false requeues the message.
func (c *Consumer) handle(body []byte) bool {
	var event storage.ContactEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// A malformed message will never parse; drop it instead of
		// requeueing forever.
		c.logger.Error().Err(err).Msg("dropping malformed contact event")
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := c.sender.SendContactNotification(ctx, event); err != nil {
		c.logger.Error().Err(err).Str("message_id", event.MessageID).Msg("contact email failed, requeueing")
		return false
	}

	if c.db != nil {
		if err := c.db.MarkContactMessageSent(ctx, event.MessageID); err != nil {
			// The mail went out; do not requeue for a bookkeeping failure.
			c.logger.Warn().Err(err).Str("message_id", event.MessageID).Msg("marking contact message sent failed")
		}
	}

	c.logger.Info().Str("message_id", event.MessageID).Msg("contact email sent")
	return true
}
