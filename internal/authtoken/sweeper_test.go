package authtoken

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vrnomarket/internal/models"
)

func TestSweepOnceDeletesOnlyExpired(t *testing.T) {
	store, database := newStoreForTest(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Issue(ctx, "user-expired", "balance-reveal", -time.Minute); err != nil {
			t.Fatalf("issue expired token: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := store.Issue(ctx, "user-live", "balance-reveal", time.Hour); err != nil {
			t.Fatalf("issue live token: %v", err)
		}
	}

	sweeper := NewSweeper(database, time.Hour, zerolog.Nop())

	deleted, err := sweeper.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("deleted = %d, want 3", deleted)
	}

	// idempotent with no new expiries
	deleted, err = sweeper.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("second sweep deleted = %d, want 0", deleted)
	}

	var remaining int64
	if err := database.Model(&models.AuthToken{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count remaining: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("remaining rows = %d, want 2", remaining)
	}
}

func TestSweepRemovesConsumedRowsAfterExpiry(t *testing.T) {
	store, database := newStoreForTest(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-42", "balance-reveal", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := store.VerifyAndConsume(ctx, token, "balance-reveal"); err != nil {
		t.Fatalf("consume: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	sweeper := NewSweeper(database, time.Hour, zerolog.Nop())
	deleted, err := sweeper.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1 (consumed rows are retained only until expiry)", deleted)
	}
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	_, database := newStoreForTest(t)

	sweeper := NewSweeper(database, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// let a few ticks fire, then cancel
	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

func TestSweeperSurvivesStorageErrors(t *testing.T) {
	store, database := newStoreForTest(t)
	ctx := context.Background()

	if _, err := store.Issue(ctx, "user-42", "balance-reveal", time.Hour); err != nil {
		t.Fatalf("issue: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	sweeper := NewSweeper(database, 5*time.Millisecond, zerolog.Nop())

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	// several failing ticks must not terminate the loop
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper loop terminated on storage error instead of retrying")
	}
}
