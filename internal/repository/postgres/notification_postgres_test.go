package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propapi/internal/model"
	"propapi/internal/repository"
)

var notificationRowColumns = []string{"id", "user_id", "type", "title", "message", "link", "read", "created_at"}

func TestNotificationPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationPostgres(db)
	now := time.Now().UTC()
	n := &model.Notification{
		ID: "n-1", UserID: "u-1", Type: model.NotifyInvoiceSent,
		Title: "New invoice", Message: "INV-001000 is due", Link: "/invoices/inv-1", CreatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, false, now).
		WillReturnRows(sqlmock.NewRows(notificationRowColumns).
			AddRow(n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Link, false, now))

	got, err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, model.NotifyInvoiceSent, got.Type)
	assert.False(t, got.Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationPostgres_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationPostgres(db)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications WHERE user_id = (.+) AND read = ").
		WithArgs("u-1", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE user_id = (.+) ORDER BY created_at DESC").
		WithArgs("u-1", false, 20, 0).
		WillReturnRows(sqlmock.NewRows(notificationRowColumns).
			AddRow("n-1", "u-1", "invoice_sent", "New invoice", "", "", false, now))

	res, err := repo.ListByUser(context.Background(), "u-1", true, repository.PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationPostgres_MarkRead(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE notifications SET read = true WHERE id = ").
		WithArgs("n-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkRead(ctx, "n-1", "u-1"))

	mock.ExpectExec("UPDATE notifications SET read = true WHERE id = ").
		WithArgs("n-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkRead(ctx, "n-1", "intruder"), sql.ErrNoRows)
}

func TestNotificationPostgres_MarkAllReadAndCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE notifications SET read = true WHERE user_id = ").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	n, err := repo.MarkAllRead(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications WHERE user_id = (.+) AND read = false").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	c, err := repo.CountUnread(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}
