package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/ticket"
	"deskflow/internal/infrastructure/config"
	"deskflow/internal/infrastructure/database"
	"deskflow/internal/infrastructure/email"
	"deskflow/internal/infrastructure/pubsub"
	"deskflow/internal/infrastructure/repository"
	"deskflow/internal/infrastructure/services"
	"deskflow/internal/shared/logger"
)

func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting notification worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	notifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Server.BaseURL,
	})

	dispatcher := &notificationDispatcher{
		tickets:   repository.NewTicketRepository(database.Get()),
		directory: services.NewUserDirectory(database.Get()),
		notifier:  notifier,
		logger:    log.Named("dispatcher"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Infow("received signal, shutting down", "signal", sig)
		cancel()
	}()

	bus := pubsub.NewRedisEventBus(redisClient, log.Named("pubsub"))
	if err := bus.Subscribe(ctx, dispatcher.Dispatch); err != nil && err != context.Canceled {
		log.Errorw("event subscription terminated", "error", err)
		os.Exit(1)
	}

	log.Infow("notification worker stopped")
}

// notificationDispatcher turns domain events into emails. Delivery is best
// effort; failures are logged and the event is dropped rather than retried,
// so a flaky SMTP server can never back up the event stream.
type notificationDispatcher struct {
	tickets   *repository.TicketRepository
	directory *services.UserDirectory
	notifier  *email.SMTPNotifier
	logger    logger.Interface
}

func (d *notificationDispatcher) Dispatch(envelope pubsub.EventEnvelope) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch envelope.EventType {
	case approval.EventTypeApprovalRequested:
		err = d.handleApprovalRequested(ctx, envelope.Payload)
	case ticket.EventTypeTicketStatusChanged:
		err = d.handleStatusChanged(ctx, envelope.Payload)
	case ticket.EventTypeTicketAssigned:
		err = d.handleTicketAssigned(ctx, envelope.Payload)
	default:
		// Events without a notification (e.g. ticket.submitted) are expected here.
		d.logger.Debugw("ignoring event without notification",
			"event_type", envelope.EventType,
			"event_id", envelope.EventID,
		)
		return
	}

	if err != nil {
		d.logger.Errorw("failed to process notification",
			"event_type", envelope.EventType,
			"event_id", envelope.EventID,
			"error", err,
		)
		return
	}

	d.logger.Infow("notification sent",
		"event_type", envelope.EventType,
		"event_id", envelope.EventID,
	)
}

func (d *notificationDispatcher) handleApprovalRequested(ctx context.Context, payload json.RawMessage) error {
	var event approval.ApprovalRequestedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal approval requested event: %w", err)
	}

	to, err := d.directory.GetEmail(ctx, event.ApproverID)
	if err != nil {
		return fmt.Errorf("failed to resolve approver email: %w", err)
	}

	t, err := d.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	return d.notifier.SendApprovalRequestedEmail(to, t.Number(), t.Title(), t.ID())
}

func (d *notificationDispatcher) handleStatusChanged(ctx context.Context, payload json.RawMessage) error {
	var event ticket.TicketStatusChangedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal status changed event: %w", err)
	}

	t, err := d.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	to, err := d.directory.GetEmail(ctx, t.CreatedBy())
	if err != nil {
		return fmt.Errorf("failed to resolve creator email: %w", err)
	}

	return d.notifier.SendStatusChangedEmail(to, event.Number, event.OldStatus, event.NewStatus, event.TicketID)
}

func (d *notificationDispatcher) handleTicketAssigned(ctx context.Context, payload json.RawMessage) error {
	var event ticket.TicketAssignedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal ticket assigned event: %w", err)
	}

	to, err := d.directory.GetEmail(ctx, event.AssigneeID)
	if err != nil {
		return fmt.Errorf("failed to resolve assignee email: %w", err)
	}

	t, err := d.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	return d.notifier.SendTicketAssignedEmail(to, t.Number(), t.ID())
}
