package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/bloglist/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender, recipient string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:    logger,
		recipient: recipient,
		baseDelay: baseDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SendBlogNotifications consumes blog.created events and mails each one to the configured recipient.
// It returns once the consumer is running; Close stops it.
func (s *MailService) SendBlogNotifications() {
	msgs, err := s.mb.Consume(common.BlogCreatedKey, common.BlogExchange, common.BlogCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				s.handle(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendBlogNotifications due to context cancellation")
				return
			}
		}
	}()
}

// handle sends one notification, retrying with exponential backoff and jitter. The message is acked either way so a
// broken mail server does not block the queue.
func (s *MailService) handle(msg amqp.Delivery) {
	defer msg.Ack(false)

	var data blogCreated
	err := json.Unmarshal(msg.Body, &data)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.m.send(s.recipient, data, blogCreatedTemplate)
		if err == nil {
			s.logger.Info("blog notification sent", slog.String("blog_id", data.ID))
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying blog notification", slog.String("blog_id", data.ID), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not send blog notification", slog.String("blog_id", data.ID), slog.String("error", err.Error()))
}

// Close stops the consumer and waits for the message in flight.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
