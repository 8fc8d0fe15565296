package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"star_crawler/internal/domain"
)

const (
	EventPageCommitted = "page_committed"
	EventCrawlFinished = "crawl_finished"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQ publishes crawl progress events to a direct exchange.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    channel
	exchange   string
	routingKey string
	logger     *slog.Logger
	now        func() time.Time
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger = logger.With("component", "publisher")
	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// ProgressMessage is the body of every published event. Outcome, Pages and
// DurationSeconds are only set on crawl_finished.
type ProgressMessage struct {
	Event                 string    `json:"event"`
	RunID                 string    `json:"run_id"`
	Cursor                *string   `json:"cursor,omitempty"`
	RepositoriesProcessed int64     `json:"repositories_processed"`
	RateLimitRemaining    int       `json:"rate_limit_remaining,omitempty"`
	Exhausted             bool      `json:"exhausted,omitempty"`
	Outcome               string    `json:"outcome,omitempty"`
	Pages                 int       `json:"pages,omitempty"`
	DurationSeconds       float64   `json:"duration_seconds,omitempty"`
	Timestamp             time.Time `json:"timestamp"`
}

func (r *RabbitMQ) PublishProgress(ctx context.Context, state *domain.CrawlState) error {
	return r.publish(ctx, ProgressMessage{
		Event:                 EventPageCommitted,
		RunID:                 state.RunID,
		Cursor:                state.Cursor,
		RepositoriesProcessed: state.RepositoriesProcessed,
		RateLimitRemaining:    state.RateLimitRemaining,
		Exhausted:             state.Exhausted,
		Timestamp:             r.now(),
	})
}

func (r *RabbitMQ) PublishFinished(ctx context.Context, stats *domain.CrawlStats) error {
	return r.publish(ctx, ProgressMessage{
		Event:                 EventCrawlFinished,
		RunID:                 stats.RunID,
		RepositoriesProcessed: stats.RepositoriesProcessed,
		Outcome:               string(stats.Outcome),
		Pages:                 stats.Pages,
		DurationSeconds:       stats.Duration.Seconds(),
		Timestamp:             r.now(),
	})
}

func (r *RabbitMQ) publish(ctx context.Context, msg ProgressMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         msg.Event,
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.Event, err)
	}

	r.logger.Debug("published event",
		"event", msg.Event,
		"run_id", msg.RunID,
		"repositories_processed", msg.RepositoriesProcessed,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
