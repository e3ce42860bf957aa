package authtoken

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vrnomarket/internal/models"
)

func newStoreForTest(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// sqlite allows a single writer; funnel everything through one
	// connection so concurrent consume attempts contend on the row, not on
	// the file lock.
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(&models.AuthToken{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	store, err := NewStore(database, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, database
}

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		token, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(token) != tokenBytes*2 {
			t.Fatalf("token length = %d, want %d", len(token), tokenBytes*2)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

func TestIssueAndConsumeRoundTrip(t *testing.T) {
	store, _ := newStoreForTest(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-42", "balance-reveal", 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := store.VerifyAndConsume(ctx, token, "balance-reveal")
	if err != nil {
		t.Fatalf("verify and consume: %v", err)
	}
	if subject != "user-42" {
		t.Fatalf("subject = %q, want user-42", subject)
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	store, _ := newStoreForTest(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-42", "balance-reveal", 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := store.VerifyAndConsume(ctx, token, "balance-reveal"); err != nil {
		t.Fatalf("first consume: %v", err)
	}

	if _, err := store.VerifyAndConsume(ctx, token, "balance-reveal"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("second consume error = %v, want ErrInvalidToken", err)
	}
}

func TestConsumeRejections(t *testing.T) {
	store, _ := newStoreForTest(t)
	ctx := context.Background()

	valid, err := store.Issue(ctx, "user-42", "balance-reveal", 15*time.Minute)
	if err != nil {
		t.Fatalf("issue valid: %v", err)
	}
	expired, err := store.Issue(ctx, "user-42", "balance-reveal", -time.Minute)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		purpose string
	}{
		{name: "wrong purpose", token: valid, purpose: "assets-reveal"},
		{name: "expired", token: expired, purpose: "balance-reveal"},
		{name: "unknown token", token: "deadbeef", purpose: "balance-reveal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.VerifyAndConsume(ctx, tt.token, tt.purpose); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("error = %v, want ErrInvalidToken", err)
			}
		})
	}

	// the wrong-purpose attempts above must not have consumed the token
	subject, err := store.VerifyAndConsume(ctx, valid, "balance-reveal")
	if err != nil {
		t.Fatalf("consume after rejected attempts: %v", err)
	}
	if subject != "user-42" {
		t.Fatalf("subject = %q, want user-42", subject)
	}
}

func TestConcurrentConsumeSingleSuccess(t *testing.T) {
	store, _ := newStoreForTest(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-7", "assets-reveal", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const attempts = 100
	var wg sync.WaitGroup
	wg.Add(attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		idx := i
		go func() {
			defer wg.Done()
			_, errs[idx] = store.VerifyAndConsume(ctx, token, "assets-reveal")
		}()
	}
	wg.Wait()

	success, invalid := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrInvalidToken):
			invalid++
		default:
			t.Fatalf("unexpected consume error: %v", err)
		}
	}
	if success != 1 || invalid != attempts-1 {
		t.Fatalf("success=%d invalid=%d, want 1 and %d", success, invalid, attempts-1)
	}
}

func TestStorageErrorsAreNotInvalid(t *testing.T) {
	store, database := newStoreForTest(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-42", "balance-reveal", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	_, err = store.VerifyAndConsume(ctx, token, "balance-reveal")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("error = %v, want ErrStorageUnavailable", err)
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Fatal("storage failure must not be reported as an invalid token")
	}

	if _, err := store.Issue(ctx, "user-42", "balance-reveal", time.Hour); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("issue error = %v, want ErrStorageUnavailable", err)
	}
}
