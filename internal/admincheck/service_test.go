package admincheck

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(admins *test.AdminRepositoryStub) (*Service, *test.Clock) {
	clock := test.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewService(admins, 5*time.Minute, clock.Now, discardLogger()), clock
}

func TestIsAdminCachesVerdict(t *testing.T) {
	admins := test.NewAdminRepositoryStub(7)
	svc, _ := newTestService(admins)

	for i := 0; i < 3; i++ {
		verdict, err := svc.IsAdmin(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !verdict {
			t.Fatal("expected admin verdict")
		}
	}
	if admins.LookupCnt != 1 {
		t.Fatalf("expected single repository lookup, got %d", admins.LookupCnt)
	}
}

func TestIsAdminCachesNegativeVerdict(t *testing.T) {
	admins := test.NewAdminRepositoryStub()
	svc, _ := newTestService(admins)

	for i := 0; i < 3; i++ {
		verdict, err := svc.IsAdmin(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if verdict {
			t.Fatal("expected non-admin verdict")
		}
	}
	if admins.LookupCnt != 1 {
		t.Fatalf("expected single repository lookup, got %d", admins.LookupCnt)
	}
}

func TestIsAdminExpiresWithClock(t *testing.T) {
	admins := test.NewAdminRepositoryStub(7)
	svc, clock := newTestService(admins)

	if _, err := svc.IsAdmin(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(5*time.Minute + time.Second)
	if _, err := svc.IsAdmin(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admins.LookupCnt != 2 {
		t.Fatalf("expected fresh lookup after TTL, got %d", admins.LookupCnt)
	}
}

func TestRequire(t *testing.T) {
	admins := test.NewAdminRepositoryStub(7)
	svc, _ := newTestService(admins)

	if err := svc.Require(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error for admin: %v", err)
	}
	if err := svc.Require(context.Background(), 8); !errors.Is(err, domainErrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	boom := errors.New("connection refused")
	admins.IsAdminFn = func(context.Context, int64) (bool, error) { return false, boom }
	if err := svc.Require(context.Background(), 9); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}
}

func TestIsAdminDoesNotCacheErrors(t *testing.T) {
	admins := test.NewAdminRepositoryStub()
	boom := errors.New("connection refused")
	admins.IsAdminFn = func(context.Context, int64) (bool, error) { return false, boom }
	svc, _ := newTestService(admins)

	if _, err := svc.IsAdmin(context.Background(), 7); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}

	admins.IsAdminFn = nil
	verdict, err := svc.IsAdmin(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if verdict {
		t.Fatal("expected non-admin verdict")
	}
}

func TestGrantInvalidatesCache(t *testing.T) {
	admins := test.NewAdminRepositoryStub()
	svc, _ := newTestService(admins)

	verdict, err := svc.IsAdmin(context.Background(), 9)
	if err != nil || verdict {
		t.Fatalf("expected cached non-admin, got verdict=%v err=%v", verdict, err)
	}

	if _, err := svc.Grant(context.Background(), 9, 1); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	verdict, err = svc.IsAdmin(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict {
		t.Fatal("grant did not take effect immediately")
	}
}

func TestRevokeInvalidatesCache(t *testing.T) {
	admins := test.NewAdminRepositoryStub(9)
	svc, _ := newTestService(admins)

	if verdict, _ := svc.IsAdmin(context.Background(), 9); !verdict {
		t.Fatal("expected admin before revoke")
	}

	if err := svc.Revoke(context.Background(), 9, 1); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	verdict, err := svc.IsAdmin(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict {
		t.Fatal("revoke did not take effect immediately")
	}
}

func TestRevokeSelfForbidden(t *testing.T) {
	admins := test.NewAdminRepositoryStub(9)
	svc, _ := newTestService(admins)

	if err := svc.Revoke(context.Background(), 9, 9); !errors.Is(err, domainErrors.ErrSelfRevoke) {
		t.Fatalf("expected ErrSelfRevoke, got %v", err)
	}
	if _, ok := admins.Grants[9]; !ok {
		t.Fatal("self-revoke removed the grant")
	}
}

func TestGrantDuplicate(t *testing.T) {
	admins := test.NewAdminRepositoryStub(9)
	svc, _ := newTestService(admins)

	if _, err := svc.Grant(context.Background(), 9, 1); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRevokeMissingGrant(t *testing.T) {
	admins := test.NewAdminRepositoryStub()
	svc, _ := newTestService(admins)

	if err := svc.Revoke(context.Background(), 9, 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
