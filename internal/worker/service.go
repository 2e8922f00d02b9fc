// Package worker is the background process: it consumes booking and
// check-in events off NATS Streaming to dispatch notifications and
// emails, and runs the scheduled jobs (booking completion, reminders,
// overbooking audit).
package worker

import (
	"context"
	"log/slog"

	"github.com/Kenia972/myyowntour-sub000/internal/audit"
	"github.com/Kenia972/myyowntour-sub000/internal/cache"
	"github.com/Kenia972/myyowntour-sub000/internal/config"
	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/external"
	"github.com/Kenia972/myyowntour-sub000/internal/messaging"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/poller"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"
	"github.com/Kenia972/myyowntour-sub000/internal/worker/jobs"
)

const queueGroup = "worker"

type WorkerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	repos    *repository.Repositories
	handlers *Handlers
	pollers  []*poller.Poller
}

func NewWorkerService(cfg *config.Config) (*WorkerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		slog.Warn("Valkey unavailable, running without cache", "error", err)
		valkeyClient = nil
	}

	repos := repository.NewRepositories(db)
	emailClient := external.NewEmailClient(cfg.Email)

	handlers := NewHandlers(repos, emailClient, valkeyClient, natsClient)

	completionJob := jobs.NewCompletionJob(repos.Bookings, natsClient)
	reminderJob := jobs.NewReminderJob(repos.Bookings, repos.Slots, repos.Profiles, repos.Excursions, emailClient)
	auditor := audit.NewAuditor(repos.Slots)

	pollers := []*poller.Poller{
		poller.New("booking-completion", cfg.CompletionInterval, completionJob.Run),
		poller.New("booking-reminders", cfg.ReminderInterval, reminderJob.Run),
		poller.New("overbooking-audit", cfg.AuditInterval, func(ctx context.Context) error {
			_, err := auditor.Run(ctx)
			return err
		}),
	}

	return &WorkerService{
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		repos:    repos,
		handlers: handlers,
		pollers:  pollers,
	}, nil
}

// Start subscribes to every event subject and launches the scheduled
// jobs.
func (ws *WorkerService) Start(ctx context.Context) error {
	slog.Info("Starting worker subscriptions...")

	if _, err := ws.nats.SubscribeQueue(models.EventBookingCreated, queueGroup, ws.handlers.HandleBookingCreated); err != nil {
		return err
	}

	if _, err := ws.nats.SubscribeQueue(models.EventBookingConfirmed, queueGroup, ws.handlers.HandleBookingConfirmed); err != nil {
		return err
	}

	if _, err := ws.nats.SubscribeQueue(models.EventBookingCancelled, queueGroup, ws.handlers.HandleBookingCancelled); err != nil {
		return err
	}

	if _, err := ws.nats.SubscribeQueue(models.EventBookingCompleted, queueGroup, ws.handlers.HandleBookingCompleted); err != nil {
		return err
	}

	if _, err := ws.nats.SubscribeQueue(models.EventCheckinCompleted, queueGroup, ws.handlers.HandleCheckinCompleted); err != nil {
		return err
	}

	if _, err := ws.nats.SubscribeQueue(models.EventNotificationCreated, queueGroup, ws.handlers.HandleNotificationCreated); err != nil {
		return err
	}

	for _, p := range ws.pollers {
		p.Start(ctx)
	}

	slog.Info("Worker started successfully")
	return nil
}

func (ws *WorkerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down worker...")

	for _, p := range ws.pollers {
		p.Stop()
	}

	if ws.nats != nil {
		if err := ws.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if ws.valkey != nil {
		if err := ws.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if ws.db != nil {
		if err := ws.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
