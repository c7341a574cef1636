// Package notify delivers customer notifications. Messages are recorded in the
// notifications table, which doubles as the customer's inbox, and logged.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUnknownUser          = errors.New("notification recipient not found")
	ErrNoPhone              = errors.New("recipient has no phone number")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Notifier sends email and SMS to a user by id.
type Notifier interface {
	SendEmail(ctx context.Context, userID, subject, body string) error
	SendSMS(ctx context.Context, userID, body string) error
}

// Send delivers msg by email, and by SMS when the user has a phone on file.
func Send(ctx context.Context, n Notifier, user *models.User, msg Message) error {
	if err := n.SendEmail(ctx, user.ID, msg.Subject, msg.Email); err != nil {
		return err
	}
	if user.HasPhone() {
		return n.SendSMS(ctx, user.ID, msg.SMS)
	}
	return nil
}

// Outbox is the Notifier that stores and logs every message.
type Outbox struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewOutbox(db *gorm.DB, logger *slog.Logger) *Outbox {
	return &Outbox{db: db, logger: logger}
}

func (o *Outbox) SendEmail(ctx context.Context, userID, subject, body string) error {
	user, err := o.user(ctx, userID)
	if err != nil {
		return err
	}
	return o.record(ctx, models.Notification{
		UserID:    user.ID,
		Channel:   models.ChannelEmail,
		Recipient: user.Email,
		Subject:   subject,
		Message:   body,
	})
}

func (o *Outbox) SendSMS(ctx context.Context, userID, body string) error {
	user, err := o.user(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPhone() {
		return ErrNoPhone
	}
	return o.record(ctx, models.Notification{
		UserID:    user.ID,
		Channel:   models.ChannelSMS,
		Recipient: *user.PhoneNumber,
		Message:   body,
	})
}

func (o *Outbox) user(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := o.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("load recipient %s: %w", userID, err)
	}
	return &user, nil
}

func (o *Outbox) record(ctx context.Context, n models.Notification) error {
	n.CreatedAt = time.Now()
	if err := o.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	o.logger.Info("notification sent",
		"channel", n.Channel,
		"user_id", n.UserID,
		"recipient", n.Recipient,
		"subject", n.Subject,
	)
	return nil
}

// Inbox returns the user's notifications, unread and newest first.
func (o *Outbox) Inbox(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := o.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_read ASC").
		Order("created_at DESC").
		Limit(50).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}
	return out, nil
}

// MarkRead flags one of the user's notifications as read. Another user's
// notification is reported as not found.
func (o *Outbox) MarkRead(ctx context.Context, userID string, id uint) error {
	var n models.Notification
	err := o.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("load notification %d: %w", id, err)
	}
	if n.IsRead {
		return nil
	}
	if err := o.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return nil
}
