package postgres

import (
	"context"
	"database/sql"

	"propapi/internal/model"
	"propapi/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, user_id, type, title, message, link, read, created_at`

func scanNotification(s rowScanner) (*model.Notification, error) {
	var n model.Notification
	if err := s.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	const q = `
		INSERT INTO notifications (id, user_id, type, title, message, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRowContext(ctx, q,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, n.Read, n.CreatedAt))
}

func (r *NotificationPostgres) ListByUser(ctx context.Context, userID string, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	var w where
	w.add("user_id = $%d", userID)
	if unreadOnly {
		w.add("read = $%d", false)
	}

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM notifications`+w.String(), w.args...)
	if err != nil {
		return nil, err
	}

	limit, args := w.page(pq.Limit, pq.Offset)
	q := `SELECT ` + notificationColumns + ` FROM notifications` + w.String() + ` ORDER BY created_at DESC, id DESC` + limit
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Notification]{Items: items, Total: total}, nil
}

func (r *NotificationPostgres) MarkRead(ctx context.Context, id, userID string) error {
	const q = `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res, sql.ErrNoRows)
}

func (r *NotificationPostgres) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	const q = `UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationPostgres) CountUnread(ctx context.Context, userID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`, userID)
}
