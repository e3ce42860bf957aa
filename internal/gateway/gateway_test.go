package gateway

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vrnomarket/internal/authtoken"
	"vrnomarket/internal/external"
	"vrnomarket/internal/models"
)

type testEnv struct {
	api    *API
	db     *gorm.DB
	tokens *authtoken.Store
	router http.Handler
}

const testAPIKey = "test-api-key"

// newTestEnv builds a gateway backed by an in-memory database and an
// httptest upstream. Pass nil to make every external call fail, which forces
// the handlers onto the local store path.
func newTestEnv(t *testing.T, externalHandler http.HandlerFunc) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(
		&models.AuthToken{},
		&models.User{},
		&models.TokenBalance{},
		&models.UserAsset{},
		&models.Referral{},
		&models.Transaction{},
		&models.Collectible{},
		&models.AdminConfig{},
		&models.TokenPackage{},
		&models.ReferralCode{},
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	if externalHandler == nil {
		externalHandler = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}
	}
	upstream := httptest.NewServer(externalHandler)
	t.Cleanup(upstream.Close)

	tokens, err := authtoken.NewStore(database, zerolog.Nop())
	if err != nil {
		t.Fatalf("new token store: %v", err)
	}

	api, err := New(
		&Store{ORM: database},
		external.NewClient(upstream.URL, testAPIKey, time.Second),
		tokens,
		Config{APIKey: testAPIKey},
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}

	return &testEnv{api: api, db: database, tokens: tokens, router: api.Routes()}
}

func (env *testEnv) createUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Username: username}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (env *testEnv) setBalance(t *testing.T, user models.User, balance float64) {
	t.Helper()
	row := models.TokenBalance{UserID: user.ID, Balance: balance}
	if err := env.db.Create(&row).Error; err != nil {
		t.Fatalf("create balance for %s: %v", user.Username, err)
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
