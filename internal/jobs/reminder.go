// Package jobs hosts the background cron jobs of the service.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/equipment-rental/internal/queue"
	"github.com/iliyamo/equipment-rental/internal/repository"
	queue_publisher "github.com/iliyamo/equipment-rental/internal/service"
)

// reminderSpec fires once a day at 08:00 UTC, before warehouses open.
const reminderSpec = "0 8 * * *"

// Scheduler owns the cron runner and the repositories its jobs read.
type Scheduler struct {
	cron   *cron.Cron
	orders *repository.OrderRepo
	users  *repository.UserRepo
}

// NewScheduler builds a scheduler with the pickup-reminder job
// registered.  Call Start to begin firing.
func NewScheduler(orders *repository.OrderRepo, users *repository.UserRepo) *Scheduler {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		orders: orders,
		users:  users,
	}
	if _, err := s.cron.AddFunc(reminderSpec, s.SendPickupReminders); err != nil {
		log.Printf("jobs: register pickup reminder: %v", err)
	}
	return s
}

// Start begins the cron runner in its own goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SendPickupReminders publishes a reminder event for every approved
// order whose window starts tomorrow (UTC calendar day).  Publish
// failures are logged and skipped; the job is best effort and the
// next run does not retry past windows.
func (s *Scheduler) SendPickupReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	orders, err := s.orders.ListStartingBetween(ctx, from, to)
	if err != nil {
		log.Printf("jobs: list upcoming pickups: %v", err)
		return
	}
	sent := 0
	for _, o := range orders {
		owner, err := s.users.GetByID(ctx, o.UserID)
		if err != nil {
			log.Printf("jobs: load user %d for order %s: %v", o.UserID, o.ID, err)
			continue
		}
		event := queue.NotificationEvent{
			Type:        queue.TypePickupReminder,
			OrderID:     o.ID,
			UserID:      o.UserID,
			UserEmail:   owner.Email,
			WarehouseID: o.WarehouseID,
			StartsAt:    o.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:      o.EndsAt.UTC().Format(time.RFC3339),
			OccurredAt:  now.Format(time.RFC3339),
		}
		if err := queue_publisher.PublishNotification(ctx, event); err != nil {
			log.Printf("jobs: publish reminder for order %s: %v", o.ID, err)
			continue
		}
		sent++
	}
	if len(orders) > 0 {
		log.Printf("jobs: pickup reminders sent=%d of %d", sent, len(orders))
	}
}
