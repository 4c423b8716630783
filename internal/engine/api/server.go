package api

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/go-arcade/orgman/internal/engine/conf"
	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/id"
	"github.com/go-arcade/orgman/pkg/log"
	"github.com/go-arcade/orgman/pkg/safe"
)

// subjectHeader carries the verified user id. It is set by the gateway that
// authenticated the caller, never by the caller itself.
const subjectHeader = "subject"

const requestTimeout = 15 * time.Second

// Server consumes request messages from the configured queue and replies on
// each message's reply-to queue. Deliveries are handled concurrently, bounded
// by the channel prefetch count.
type Server struct {
	cfg   conf.Amqp
	logic chan<- request.LogicRequest

	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewServer(cfg conf.Amqp, logic chan<- request.LogicRequest) *Server {
	return &Server{cfg: cfg, logic: logic}
}

// Run connects, declares the request queue and consumes it until the context
// is cancelled or the delivery stream closes.
func (s *Server) Run(ctx context.Context) error {
	conn, err := amqp.Dial(s.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	s.conn = conn

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	s.channel = channel

	if err := channel.Qos(s.cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	queue, err := channel.QueueDeclare(
		s.cfg.RequestQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	deliveries, err := channel.Consume(
		queue.Name,
		"orgman-"+id.GetCompactUUID(), // consumer tag
		false,                         // auto-ack
		false,                         // exclusive
		false,                         // no-local
		false,                         // no-wait
		nil,                           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Infof("consuming requests from queue '%s'", queue.Name)

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery stream of queue '%s' closed", queue.Name)
			}
			safe.Go(func() {
				s.handleDelivery(ctx, delivery)
			})
		}
	}
}

// Close shuts the AMQP channel and connection down.
func (s *Server) Close() error {
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}

func (s *Server) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	handleCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var result Result
	if subject := subjectOf(delivery); subject == "" {
		result = failure(errs.New(errs.KindApiRequestFailure, "missing subject header"))
	} else {
		result = s.handleBody(handleCtx, subject, delivery.Body)
	}

	s.reply(handleCtx, delivery, result)

	if err := delivery.Ack(false); err != nil {
		log.Errorf("failed to acknowledge delivery: %v", err)
	}
}

// reply publishes the serialized result onto the caller's reply queue. A
// missing reply-to is a fire-and-forget request.
func (s *Server) reply(ctx context.Context, delivery amqp.Delivery, result Result) {
	if delivery.ReplyTo == "" {
		return
	}

	body, err := result.Marshal()
	if err != nil {
		log.Errorf("failed to serialize request result: %v", err)
		return
	}

	err = s.channel.PublishWithContext(
		ctx,
		"",               // default exchange
		delivery.ReplyTo, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: delivery.CorrelationId,
			Body:          body,
			Timestamp:     time.Now(),
		},
	)
	if err != nil {
		log.Errorf("failed to publish reply to '%s': %v", delivery.ReplyTo, err)
	}
}

func subjectOf(delivery amqp.Delivery) string {
	if value, ok := delivery.Headers[subjectHeader]; ok {
		if subject, ok := value.(string); ok {
			return subject
		}
	}
	return ""
}
