//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

type userResponse struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name"`
	Balance uint64   `json:"balance"`
	Recipes []uint64 `json:"recipes"`
}

type recipeResponse struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	OwnerID uint64 `json:"owner_id"`
	Price   uint64 `json:"price"`
}

// TestE2ESmoke drives a full marketplace round trip against a running
// server: register two users, initialize the contract, fund the buyer,
// list a recipe and settle a purchase.
//
// Requires a server started fresh (empty store) and CONTRACT_PASSWORD.
func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("SIMMR_BASE_URL", "http://localhost:8080")
	adminPassword := os.Getenv("CONTRACT_PASSWORD")
	if adminPassword == "" {
		t.Fatalf("CONTRACT_PASSWORD is required for e2e tests")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	var seller userResponse
	postJSON(t, client, baseURL+"/api/v1/users", map[string]any{
		"name":     "seller-" + suffix,
		"password": "seller-pass",
		"email":    "seller-" + suffix + "@example.com",
	}, http.StatusCreated, &seller)

	var buyer userResponse
	postJSON(t, client, baseURL+"/api/v1/users", map[string]any{
		"name":     "buyer-" + suffix,
		"password": "buyer-pass",
		"email":    "buyer-" + suffix + "@example.com",
	}, http.StatusCreated, &buyer)

	// Contract may already exist from a previous run; both outcomes are fine.
	initContract(t, client, baseURL, adminPassword)

	var funded userResponse
	postJSON(t, client, fmt.Sprintf("%s/api/v1/users/%d/fund", baseURL, buyer.ID), map[string]any{
		"amount":   100,
		"password": adminPassword,
	}, http.StatusOK, &funded)
	if funded.Balance < 100 {
		t.Fatalf("buyer balance = %d after funding", funded.Balance)
	}

	var recipe recipeResponse
	postJSON(t, client, baseURL+"/api/v1/recipes", map[string]any{
		"title":       "Smoke Test Soup " + suffix,
		"category":    "soup",
		"price":       40,
		"owner_id":    seller.ID,
		"is_for_sale": true,
	}, http.StatusCreated, &recipe)

	var after userResponse
	postJSON(t, client, fmt.Sprintf("%s/api/v1/recipes/%d/buy", baseURL, recipe.ID), map[string]any{
		"buyer_id": buyer.ID,
		"password": "buyer-pass",
	}, http.StatusOK, &after)

	if after.Balance != funded.Balance-40 {
		t.Errorf("buyer balance = %d, want %d", after.Balance, funded.Balance-40)
	}
	if !contains(after.Recipes, recipe.ID) {
		t.Errorf("buyer recipes %v missing %d", after.Recipes, recipe.ID)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func initContract(t *testing.T, client *http.Client, baseURL, password string) {
	t.Helper()

	body, _ := json.Marshal(map[string]any{
		"email":    "admin@simmr.local",
		"password": password,
	})
	resp, err := client.Post(baseURL+"/api/v1/contract", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("init contract: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		t.Fatalf("init contract: status %d", resp.StatusCode)
	}
}

func postJSON(t *testing.T, client *http.Client, url string, payload map[string]any, wantStatus int, out any) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", url, err)
		}
	}
}

func contains(ids []uint64, id uint64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
