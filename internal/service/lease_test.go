package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propapi/internal/auth"
	"propapi/internal/model"
	"propapi/internal/repository"
	"propapi/internal/storage"
	"propapi/internal/upload"
)

func newTestLeaseService(r *testRepos, tracker *upload.Tracker) *leaseService {
	svc := NewLeaseService(r.leases, r.properties, r.tenants, r.store, tracker, r.notifier(), zerolog.Nop()).(*leaseService)
	svc.now = fixedNow
	return svc
}

func TestLeaseService_UploadDocument(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		principal  auth.Principal
		upload     func() FileUpload
		setupMocks func(r *testRepos, f FileUpload)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:      "happy path",
			principal: landlord,
			upload: func() FileUpload {
				return FileUpload{Reader: strings.NewReader("%PDF-1.4"), Filename: "Lease.PDF", ContentType: "application/pdf", Size: 8, UploadID: "up-1"}
			},
			setupMocks: func(r *testRepos, f FileUpload) {
				r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(model.LeaseSigned), nil)
				r.withProperty()
				r.withTenant()
				r.store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "leases/"+leaseID+"/") && strings.HasSuffix(key, ".pdf")
				}), f.Reader, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.Size == 8 && opt.ContentType == "application/pdf" &&
						opt.Metadata["original-filename"] == "Lease.PDF" && opt.Progress != nil
				})).Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					_, _ = io.Copy(io.Discard, io.TeeReader(r, io.Discard))
					return storage.ObjectInfo{Key: key, Size: 8}
				}, nil)
				r.leases.On("SetDocument", mock.Anything, leaseID, mock.Anything, "Lease.PDF", testNow).Return(nil)
				r.expectNotification(tenantUserID, model.NotifyLeaseDocument)
			},
		},
		{
			name:      "validation error - nil reader",
			principal: landlord,
			upload:    func() FileUpload { return FileUpload{Filename: "lease.pdf"} },
			setupMocks: func(r *testRepos, f FileUpload) {
			},
			wantErr: ErrReaderNil,
		},
		{
			name:      "stranger is forbidden",
			principal: strangerLandlord,
			upload:    func() FileUpload { return FileUpload{Reader: strings.NewReader("x"), Filename: "lease.pdf"} },
			setupMocks: func(r *testRepos, f FileUpload) {
				r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(model.LeaseSigned), nil)
				r.withProperty()
				r.withTenant()
			},
			wantErr: ErrForbidden,
		},
		{
			name:      "lease not found",
			principal: landlord,
			upload:    func() FileUpload { return FileUpload{Reader: strings.NewReader("x"), Filename: "lease.pdf"} },
			setupMocks: func(r *testRepos, f FileUpload) {
				r.leases.On("FindByID", mock.Anything, leaseID).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:      "storage error",
			principal: landlord,
			upload:    func() FileUpload { return FileUpload{Reader: strings.NewReader("hello"), Filename: "lease.pdf", Size: 5} },
			setupMocks: func(r *testRepos, f FileUpload) {
				r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(model.LeaseSigned), nil)
				r.withProperty()
				r.withTenant()
				r.store.On("Put", mock.Anything, mock.Anything, f.Reader, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:      "repository error with successful rollback",
			principal: landlord,
			upload:    func() FileUpload { return FileUpload{Reader: strings.NewReader("hello"), Filename: "lease.pdf", Size: 5} },
			setupMocks: func(r *testRepos, f FileUpload) {
				r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(model.LeaseSigned), nil)
				r.withProperty()
				r.withTenant()
				r.store.On("Put", mock.Anything, mock.Anything, f.Reader, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				r.leases.On("SetDocument", mock.Anything, leaseID, mock.Anything, "lease.pdf", testNow).Return(errors.New("db fail"))
				r.store.On("Delete", mock.Anything, mock.Anything).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:      "repository error with failed rollback",
			principal: landlord,
			upload:    func() FileUpload { return FileUpload{Reader: strings.NewReader("hello"), Filename: "lease.pdf", Size: 5} },
			setupMocks: func(r *testRepos, f FileUpload) {
				r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(model.LeaseSigned), nil)
				r.withProperty()
				r.withTenant()
				r.store.On("Put", mock.Anything, mock.Anything, f.Reader, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				r.leases.On("SetDocument", mock.Anything, leaseID, mock.Anything, "lease.pdf", testNow).Return(errors.New("db fail"))
				r.store.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
		{
			name:      "tenant upload replaces previous document and notifies landlord",
			principal: tenant,
			upload:    func() FileUpload { return FileUpload{Reader: strings.NewReader("hello"), Filename: "signed.pdf", Size: 5} },
			setupMocks: func(r *testRepos, f FileUpload) {
				l := sampleLease(model.LeaseSigned)
				l.DocumentPath = "leases/" + leaseID + "/old.pdf"
				r.leases.On("FindByID", mock.Anything, leaseID).Return(l, nil)
				r.withProperty()
				r.withTenant()
				r.store.On("Put", mock.Anything, mock.Anything, f.Reader, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				r.leases.On("SetDocument", mock.Anything, leaseID, mock.Anything, "signed.pdf", testNow).Return(nil)
				r.store.On("Delete", mock.Anything, "leases/"+leaseID+"/old.pdf").Return(nil)
				r.expectNotification(landlordUserID, model.NotifyLeaseDocument)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRepos()
			tracker := upload.NewTracker(time.Minute)
			svc := newTestLeaseService(r, tracker)
			f := tt.upload()
			tt.setupMocks(r, f)

			lease, err := svc.UploadDocument(ctx, tt.principal, leaseID, f)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, lease)
			case tt.wantErrMsg != "":
				assert.ErrorContains(t, err, tt.wantErrMsg)
				assert.Nil(t, lease)
			default:
				require.NoError(t, err)
				assert.True(t, lease.HasDocument())
				assert.Equal(t, f.Filename, lease.DocumentName)
			}
			r.assertExpectations(t)

			if f.UploadID != "" {
				snap, ok := tracker.Get(f.UploadID)
				require.True(t, ok)
				assert.True(t, snap.Done)
				assert.Empty(t, snap.Error)
			}
		})
	}
}

func TestLeaseService_UploadDocument_TracksFailure(t *testing.T) {
	r := newTestRepos()
	tracker := upload.NewTracker(time.Minute)
	svc := newTestLeaseService(r, tracker)
	f := FileUpload{Reader: strings.NewReader("hello"), Filename: "lease.pdf", Size: 5, UploadID: "up-err"}

	r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(model.LeaseSigned), nil)
	r.withProperty()
	r.withTenant()
	r.store.On("Put", mock.Anything, mock.Anything, f.Reader, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("connection reset"))

	_, err := svc.UploadDocument(context.Background(), landlord, leaseID, f)
	require.Error(t, err)

	snap, ok := tracker.Get("up-err")
	require.True(t, ok)
	assert.True(t, snap.Done)
	assert.Contains(t, snap.Error, "connection reset")
}

func TestLeaseService_DownloadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("no document", func(t *testing.T) {
		r := newTestRepos()
		svc := newTestLeaseService(r, nil)
		r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(model.LeaseActive), nil)
		r.withProperty()
		r.withTenant()

		_, _, _, err := svc.DownloadDocument(ctx, tenant, leaseID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, ErrDocumentMissing)
	})

	t.Run("streams object", func(t *testing.T) {
		r := newTestRepos()
		svc := newTestLeaseService(r, nil)
		l := sampleLease(model.LeaseActive)
		l.DocumentPath = "leases/" + leaseID + "/doc.pdf"
		l.DocumentName = "lease.pdf"
		r.leases.On("FindByID", mock.Anything, leaseID).Return(l, nil)
		r.withProperty()
		r.withTenant()
		r.store.On("Get", mock.Anything, l.DocumentPath).
			Return(io.NopCloser(strings.NewReader("%PDF")), storage.ObjectInfo{Key: l.DocumentPath, Size: 4, ContentType: "application/pdf"}, nil)

		rc, info, lease, err := svc.DownloadDocument(ctx, tenant, leaseID)
		require.NoError(t, err)
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "%PDF", string(b))
		assert.Equal(t, int64(4), info.Size)
		assert.Equal(t, "lease.pdf", lease.DocumentName)
	})

	t.Run("presign", func(t *testing.T) {
		r := newTestRepos()
		svc := newTestLeaseService(r, nil)
		l := sampleLease(model.LeaseActive)
		l.DocumentPath = "leases/" + leaseID + "/doc.pdf"
		r.leases.On("FindByID", mock.Anything, leaseID).Return(l, nil)
		r.withProperty()
		r.withTenant()
		r.store.On("PresignGet", mock.Anything, l.DocumentPath, 15*time.Minute).Return("https://minio.local/signed", nil)

		url, err := svc.PresignDocument(ctx, landlord, leaseID, 0)
		require.NoError(t, err)
		assert.Equal(t, "https://minio.local/signed", url)
	})
}

func TestLeaseService_Transition(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		principal auth.Principal
		from, to  model.LeaseStatus
		repoErr   error
		notifyTo  string
		wantErr   error
	}{
		{name: "landlord activates signed lease", principal: landlord, from: model.LeaseSigned, to: model.LeaseActive, notifyTo: tenantUserID},
		{name: "tenant signs pending lease", principal: tenant, from: model.LeasePending, to: model.LeaseSigned, notifyTo: landlordUserID},
		{name: "tenant cannot terminate", principal: tenant, from: model.LeaseActive, to: model.LeaseTerminated, wantErr: ErrForbidden},
		{name: "terminal status", principal: landlord, from: model.LeaseExpired, to: model.LeaseActive, wantErr: ErrInvalidTransition},
		{name: "skipping signature", principal: landlord, from: model.LeaseDraft, to: model.LeaseActive, wantErr: ErrInvalidTransition},
		{name: "concurrent change", principal: landlord, from: model.LeaseActive, to: model.LeaseExpired, repoErr: repository.ErrStaleState, wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRepos()
			svc := newTestLeaseService(r, nil)
			r.leases.On("FindByID", mock.Anything, leaseID).Return(sampleLease(tt.from), nil)
			r.withProperty()
			r.withTenant()
			if tt.wantErr == nil || tt.repoErr != nil {
				r.leases.On("UpdateStatus", mock.Anything, leaseID, tt.from, tt.to, testNow).Return(tt.repoErr)
			}
			if tt.notifyTo != "" {
				r.expectNotification(tt.notifyTo, model.NotifyLeaseStatus)
			}

			lease, err := svc.Transition(ctx, tt.principal, leaseID, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, lease.Status)
			}
			r.assertExpectations(t)
		})
	}
}

func TestLeaseService_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	in := LeaseInput{
		PropertyID: propertyID,
		TenantID:   tenantID,
		StartDate:  start,
		EndDate:    start.AddDate(1, 0, 0),
		RentAmount: 120000,
		BillingDay: 1,
	}

	t.Run("defaults currency from property", func(t *testing.T) {
		r := newTestRepos()
		svc := newTestLeaseService(r, nil)
		r.withProperty()
		r.withTenant()
		r.leases.On("Create", mock.Anything, mock.MatchedBy(func(l *model.Lease) bool {
			return l.Currency == "USD" && l.Status == model.LeaseDraft && l.TenantID == tenantID
		})).Return(sampleLease(model.LeaseDraft), nil)

		_, err := svc.Create(ctx, landlord, in)
		require.NoError(t, err)
		r.assertExpectations(t)
	})

	t.Run("tenant of another property", func(t *testing.T) {
		r := newTestRepos()
		svc := newTestLeaseService(r, nil)
		r.withProperty()
		other := sampleTenant()
		other.PropertyID = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
		r.tenants.On("FindByID", mock.Anything, tenantID).Return(other, nil)

		_, err := svc.Create(ctx, landlord, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid dates", func(t *testing.T) {
		r := newTestRepos()
		svc := newTestLeaseService(r, nil)
		r.withProperty()
		r.withTenant()
		bad := in
		bad.EndDate = start.AddDate(0, 0, -1)

		_, err := svc.Create(ctx, landlord, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("tenant cannot create", func(t *testing.T) {
		r := newTestRepos()
		svc := newTestLeaseService(r, nil)
		_, err := svc.Create(ctx, tenant, in)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestLeaseService_ListScopesByRole(t *testing.T) {
	r := newTestRepos()
	svc := newTestLeaseService(r, nil)
	r.leases.On("List", mock.Anything, repository.LeaseFilter{TenantUserID: tenantUserID, Status: model.LeaseActive},
		repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.Lease]{Items: []model.Lease{*sampleLease(model.LeaseActive)}, Total: 1}, nil)

	res, err := svc.List(context.Background(), tenant, LeaseListFilter{Status: model.LeaseActive})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	r.assertExpectations(t)
}
