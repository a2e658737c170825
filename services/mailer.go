package services

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// EmailSender delivers one message. Implementations live in the email
// package.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

const mailerBatchSize = 50

// Mailer periodically emails notifications that have not been emailed yet.
// Delivery is best effort: a failed send is logged and retried on the next
// tick, and the task lifecycle never waits on it.
type Mailer struct {
	db       *gorm.DB
	sender   EmailSender
	clock    Clock
	interval time.Duration
}

func NewMailer(db *gorm.DB, sender EmailSender, clock Clock, interval time.Duration) *Mailer {
	return &Mailer{db: db, sender: sender, clock: clock, interval: interval}
}

// Run dispatches pending notification emails until ctx is cancelled.
func (m *Mailer) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := m.DispatchPending(ctx)
			if err != nil {
				log.Printf("[mailer] dispatch failed: %v", err)
				continue
			}
			if sent > 0 {
				log.Printf("[mailer] sent %d notification email(s)", sent)
			}
		}
	}
}

// DispatchPending sends emails for notifications with no EmailedAt stamp,
// oldest first, and returns how many went out.
func (m *Mailer) DispatchPending(ctx context.Context) (int, error) {
	db := m.db.WithContext(ctx)

	var pending []models.Notification
	err := db.Where("emailed_at IS NULL").
		Order("created_at ASC").
		Limit(mailerBatchSize).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		n := &pending[i]

		var user models.User
		if err := db.First(&user, "id = ?", n.UserID).Error; err != nil {
			log.Printf("[mailer] no recipient for notification %s: %v", n.ID, err)
			continue
		}

		if err := m.sender.Send(ctx, user.Email, n.Title, n.Message); err != nil {
			log.Printf("[mailer] send to %s failed: %v", user.Email, err)
			continue
		}

		now := m.clock.Now()
		err = db.Model(&models.Notification{}).
			Where("id = ?", n.ID).
			Update("emailed_at", now).Error
		if err != nil {
			log.Printf("[mailer] could not stamp notification %s: %v", n.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}
