package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"propapi/internal/auth"
	"propapi/internal/model"
	"propapi/internal/repository"
)

// Notifier creates notifications on behalf of other services.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ model.NotificationType, title, message, link string) (*model.Notification, error)
}

// NotificationService manages a user's notification inbox.
type NotificationService interface {
	Notifier
	List(ctx context.Context, p auth.Principal, unreadOnly bool, limit, offset int) (*ListResult[model.Notification], error)
	MarkRead(ctx context.Context, p auth.Principal, id string) error
	MarkAllRead(ctx context.Context, p auth.Principal) (int64, error)
	UnreadCount(ctx context.Context, p auth.Principal) (int, error)
}

type notificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo, now: time.Now}
}

func (s *notificationService) Notify(ctx context.Context, userID string, typ model.NotificationType, title, message, link string) (*model.Notification, error) {
	n := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: s.now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, n)
}

func (s *notificationService) List(ctx context.Context, p auth.Principal, unreadOnly bool, limit, offset int) (*ListResult[model.Notification], error) {
	res, err := s.repo.ListByUser(ctx, p.UserID, unreadOnly, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *notificationService) MarkRead(ctx context.Context, p auth.Principal, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return translate(s.repo.MarkRead(ctx, id, p.UserID))
}

func (s *notificationService) MarkAllRead(ctx context.Context, p auth.Principal) (int64, error) {
	return s.repo.MarkAllRead(ctx, p.UserID)
}

func (s *notificationService) UnreadCount(ctx context.Context, p auth.Principal) (int, error) {
	return s.repo.CountUnread(ctx, p.UserID)
}

// notify sends a best-effort notification. Failures are logged and never fail the caller.
func notify(ctx context.Context, n Notifier, log zerolog.Logger, userID string, typ model.NotificationType, title, message, link string) {
	if n == nil || userID == "" {
		return
	}
	title = truncateRunes(title, model.MaxNotificationTitle)
	message = truncateRunes(message, model.MaxNotificationMessage)
	if _, err := n.Notify(ctx, userID, typ, title, message, link); err != nil {
		log.Warn().Str("event", "notification_failed").
			Str("notification_type", string(typ)).
			Str("user_id", userID).
			Str("error_message", err.Error()).Msg("")
	}
}

// truncateRunes shortens s to at most n runes, marking the cut with "...".
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
