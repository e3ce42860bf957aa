package gateway

import (
	"encoding/json"
	"net/http"
	"testing"

	"vrnomarket/internal/models"
)

func TestUserBalanceFromStore(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")
	env.setBalance(t, user, 250.5)

	rec := env.do(t, http.MethodGet, "/api/user/balance/alice", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["balance"] != 250.5 {
		t.Errorf("balance = %v, want 250.5", got["balance"])
	}
	if got["username"] != "alice" {
		t.Errorf("username = %v, want alice", got["username"])
	}
}

func TestUserBalanceFallsBackToExternalAPI(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/balance/bob" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"balance": 42, "username": "bob"}`))
	})

	// bob does not exist locally, so the upstream answer is served
	rec := env.do(t, http.MethodGet, "/api/user/balance/bob", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["balance"] != float64(42) {
		t.Errorf("balance = %v, want 42", got["balance"])
	}
}

func TestUserBalanceUnknownUserEverywhere(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/user/balance/ghost", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestUserAssetsShape(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")

	assets := []models.UserAsset{
		{UserID: user.ID, CollectibleID: "genesect", Quantity: 2, UserPrice: 10, CurrentPrice: 12},
		{UserID: user.ID, CollectibleID: "mewtwo", Quantity: 0, UserPrice: 5, CurrentPrice: 6},
	}
	for i := range assets {
		if err := env.db.Create(&assets[i]).Error; err != nil {
			t.Fatalf("create asset: %v", err)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/user/assets/alice", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// zero-quantity holdings are filtered out
	if len(got) != 1 {
		t.Fatalf("assets = %d, want 1", len(got))
	}
	if got[0]["id"] != "genesect" {
		t.Errorf("id = %v, want genesect", got[0]["id"])
	}
	if got[0]["quantity"] != float64(2) {
		t.Errorf("quantity = %v, want 2", got[0]["quantity"])
	}
}

func TestUserMovementsShape(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")

	tx := models.Transaction{
		UserID:          user.ID,
		CollectibleID:   "genesect",
		TransactionType: "buy",
		Amount:          3,
		Price:           11.5,
		Description:     "market buy",
	}
	if err := env.db.Create(&tx).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/user/movements/alice", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("movements = %d, want 1", len(got))
	}
	if got[0]["type"] != "buy" {
		t.Errorf("type = %v, want buy", got[0]["type"])
	}
	if got[0]["collectible_id"] != "genesect" {
		t.Errorf("collectible_id = %v, want genesect", got[0]["collectible_id"])
	}
}

func TestPortfolioGainsComputation(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")

	assets := []models.UserAsset{
		{UserID: user.ID, CollectibleID: "genesect", Quantity: 2, UserPrice: 10, CurrentPrice: 15},
		{UserID: user.ID, CollectibleID: "mewtwo", Quantity: 1, UserPrice: 20, CurrentPrice: 18},
	}
	for i := range assets {
		if err := env.db.Create(&assets[i]).Error; err != nil {
			t.Fatalf("create asset: %v", err)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/user/portfolio-gains/alice", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got struct {
		TotalGain  float64          `json:"total_gain"`
		TotalValue float64          `json:"total_value"`
		Assets     []map[string]any `json:"assets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// (15-10)*2 + (18-20)*1 = 8 ; 15*2 + 18*1 = 48
	if got.TotalGain != 8 {
		t.Errorf("total_gain = %v, want 8", got.TotalGain)
	}
	if got.TotalValue != 48 {
		t.Errorf("total_value = %v, want 48", got.TotalValue)
	}
	if len(got.Assets) != 2 {
		t.Errorf("assets = %d, want 2", len(got.Assets))
	}
}

func TestUserReferrals(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")

	ref := models.Referral{ReferrerID: user.ID, RewardTokens: 25}
	if err := env.db.Create(&ref).Error; err != nil {
		t.Fatalf("create referral: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/user/referrals/alice", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("referrals = %d, want 1", len(got))
	}
	if got[0]["reward_tokens"] != float64(25) {
		t.Errorf("reward_tokens = %v, want 25", got[0]["reward_tokens"])
	}
}
