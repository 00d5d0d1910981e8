package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/config"
	"payhub/internal/infrastructure/database"
)

func newTestGormRepository(t *testing.T) *PaymentRecordGormRepository {
	t.Helper()
	db, err := database.OpenGorm(config.StoreConfig{Driver: config.StoreDriverSQLite, SQLitePath: ":memory:"}, false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseGorm(db) })

	repo := NewPaymentRecordGormRepository(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func pendingRecord(id, gatewayPaymentID string, createdAt time.Time) entities.PaymentRecord {
	return entities.PaymentRecord{
		ID:               id,
		GatewayPaymentID: gatewayPaymentID,
		Gateway:          entities.GatewayGoPay,
		Amount:           3000,
		Currency:         "CZK",
		Status:           entities.PaymentStatusPending,
		SessionID:        gatewayPaymentID,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

func TestPaymentRecordGormRepository_CreateAndGet(t *testing.T) {
	repo := newTestGormRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	rec := pendingRecord("gopay_1", "gp-1", now)
	rec.CustomerEmail = "a@b.c"
	rec.OrderID = "order-1"
	if _, err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetBySessionID(ctx, "gp-1")
	if err != nil {
		t.Fatalf("get by session: %v", err)
	}
	if got.ID != "gopay_1" || got.Amount != 3000 || got.OrderID != "order-1" || got.Status != entities.PaymentStatusPending {
		t.Fatalf("unexpected record %+v", got)
	}

	got, err = repo.GetByGatewayPaymentID(ctx, "gp-1")
	if err != nil || got.ID != "gopay_1" {
		t.Fatalf("get by gateway id: %+v %v", got, err)
	}

	missing, err := repo.GetBySessionID(ctx, "doesnotexist")
	if err != nil || missing.ID != "" {
		t.Fatalf("expected zero record, got %+v %v", missing, err)
	}
}

func TestPaymentRecordGormRepository_Create_Duplicates(t *testing.T) {
	repo := newTestGormRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := repo.Create(ctx, pendingRecord("gopay_1", "gp-1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("same id", func(t *testing.T) {
		_, err := repo.Create(ctx, pendingRecord("gopay_1", "gp-2", now))
		if !errors.Is(err, entities.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
	})

	t.Run("same gateway payment id", func(t *testing.T) {
		_, err := repo.Create(ctx, pendingRecord("gopay_2", "gp-1", now))
		if !errors.Is(err, entities.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
	})
}

func TestPaymentRecordGormRepository_UpdateStatus(t *testing.T) {
	repo := newTestGormRepository(t)
	ctx := context.Background()
	created := time.Now().UTC().Add(-time.Minute)

	if _, err := repo.Create(ctx, pendingRecord("gopay_1", "gp-1", created)); err != nil {
		t.Fatalf("create: %v", err)
	}

	steps := []struct {
		name   string
		id     string
		status entities.PaymentStatus
		want   entities.StatusUpdateOutcome
	}{
		{"pending to success", "gp-1", entities.PaymentStatusSuccess, entities.StatusUpdateApplied},
		{"same terminal status again", "gp-1", entities.PaymentStatusSuccess, entities.StatusUpdateUnchanged},
		{"different terminal status", "gp-1", entities.PaymentStatusFailed, entities.StatusUpdateConflict},
		{"unknown record", "gp-404", entities.PaymentStatusSuccess, entities.StatusUpdateNotFound},
	}
	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			got, err := repo.UpdateStatus(ctx, st.id, st.status)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != st.want {
				t.Fatalf("expected %s, got %s", st.want, got)
			}
		})
	}

	rec, _ := repo.GetByGatewayPaymentID(ctx, "gp-1")
	if rec.Status != entities.PaymentStatusSuccess {
		t.Fatalf("expected success to stick, got %s", rec.Status)
	}
	if !rec.UpdatedAt.After(created) {
		t.Fatalf("expected updatedAt refreshed, got %s (created %s)", rec.UpdatedAt, created)
	}

	if _, err := repo.UpdateStatus(ctx, "gp-1", entities.PaymentStatusPending); !errors.Is(err, entities.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for non-terminal status, got %v", err)
	}
}

func TestPaymentRecordGormRepository_UpdateStatus_Concurrent(t *testing.T) {
	repo := newTestGormRepository(t)
	ctx := context.Background()
	if _, err := repo.Create(ctx, pendingRecord("gopay_1", "gp-1", time.Now().UTC())); err != nil {
		t.Fatalf("create: %v", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := repo.UpdateStatus(ctx, "gp-1", entities.PaymentStatusSuccess)
			if err != nil {
				t.Errorf("update: %v", err)
				return
			}
			if out == entities.StatusUpdateApplied {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if applied != 1 {
		t.Fatalf("expected exactly one applied update, got %d", applied)
	}
}

func TestPaymentRecordGormRepository_ListAll(t *testing.T) {
	repo := newTestGormRepository(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i, id := range []string{"a", "b", "c"} {
		if _, err := repo.Create(ctx, pendingRecord("gopay_"+id, "gp-"+id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != "gopay_c" || items[2].ID != "gopay_a" {
		t.Fatalf("expected newest first, got %s..%s", items[0].ID, items[2].ID)
	}
}
