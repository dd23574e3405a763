package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestLoginStoresTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeData(w, map[string]interface{}{
			"user":         map[string]string{"_id": "u1", "email": "ph@example.com", "role": "pharmacy"},
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	var gotAccess, gotRefresh string
	client.OnTokens(func(access, refresh string) {
		gotAccess, gotRefresh = access, refresh
	})

	result, err := client.Login(context.Background(), Credentials{Email: "ph@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.UserID != "u1" || result.User.Role != "pharmacy" {
		t.Fatalf("user=%+v", result.User)
	}
	if client.AccessToken() != "access-1" {
		t.Fatalf("access token=%q", client.AccessToken())
	}
	if gotAccess != "access-1" || gotRefresh != "refresh-1" {
		t.Fatalf("token hook got %q/%q", gotAccess, gotRefresh)
	}
}

func TestRefreshOnceAndRetry(t *testing.T) {
	var refreshCalls, claimCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var payload struct {
				RefreshToken string `json:"refreshToken"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			if payload.RefreshToken != "refresh-1" {
				t.Fatalf("refresh token=%q", payload.RefreshToken)
			}
			writeData(w, map[string]string{"accessToken": "access-2"})
		case "/api/claims/c1":
			atomic.AddInt32(&claimCalls, 1)
			if r.Header.Get("Authorization") == "Bearer stale" {
				writeErrorEnvelope(w, http.StatusUnauthorized, "token expired")
				return
			}
			if r.Header.Get("Authorization") != "Bearer access-2" {
				t.Fatalf("retried request auth=%q", r.Header.Get("Authorization"))
			}
			writeData(w, map[string]string{"_id": "c1", "status": "created"})
		default:
			t.Fatalf("unexpected request %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("stale", "refresh-1")

	claim, err := client.GetClaim(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get claim: %v", err)
	}
	if claim.ClaimID != "c1" {
		t.Fatalf("claim=%+v", claim)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Fatalf("refresh calls=%d, want 1", got)
	}
	if got := atomic.LoadInt32(&claimCalls); got != 2 {
		t.Fatalf("claim calls=%d, want 2", got)
	}
	if client.AccessToken() != "access-2" {
		t.Fatalf("access token after refresh=%q", client.AccessToken())
	}
}

func TestSecondUnauthorizedForcesLogout(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			atomic.AddInt32(&refreshCalls, 1)
			writeData(w, map[string]string{"accessToken": "access-2"})
			return
		}
		writeErrorEnvelope(w, http.StatusUnauthorized, "token revoked")
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("stale", "refresh-1")
	expired := false
	client.OnAuthExpired(func() { expired = true })

	_, err := client.GetClaim(context.Background(), "c1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("error=%v, want ErrAuthExpired", err)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Fatalf("refresh calls=%d, want exactly 1", got)
	}
	if !expired {
		t.Fatal("auth-expired hook not called")
	}
	if client.AccessToken() != "" {
		t.Fatal("tokens not cleared on forced logout")
	}
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			writeErrorEnvelope(w, http.StatusUnauthorized, "refresh token expired")
			return
		}
		writeErrorEnvelope(w, http.StatusUnauthorized, "token expired")
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("stale", "stale-refresh")
	expired := false
	client.OnAuthExpired(func() { expired = true })

	_, err := client.GetClaim(context.Background(), "c1")
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("error=%v, want ErrAuthExpired", err)
	}
	if !expired {
		t.Fatal("auth-expired hook not called")
	}
}

func TestServerErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorEnvelope(w, http.StatusConflict, "invalid status transition")
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("access", "refresh")

	_, err := client.UpdateClaimStatus(context.Background(), "c1", "closed", "")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "invalid status transition" {
		t.Fatalf("apiErr=%+v", apiErr)
	}
	if UserMessage(err) != "invalid status transition" {
		t.Fatalf("user message=%q", UserMessage(err))
	}
}

func TestUpdateClaimStatusRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/claims/c1/status" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("missing request id")
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload["status"] != "in_progress" || payload["notes"] != "taking it" {
			t.Fatalf("payload=%v", payload)
		}
		writeData(w, map[string]interface{}{
			"_id":    "c1",
			"status": "in_progress",
			"statusHistory": []map[string]string{
				{"status": "in_progress", "notes": "taking it"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("access", "refresh")

	claim, err := client.UpdateClaimStatus(context.Background(), "c1", "in_progress", "taking it")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if claim.Status != "in_progress" || len(claim.StatusHistory) != 1 {
		t.Fatalf("claim=%+v", claim)
	}
}

func TestUploadRejectedLocally(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("access", "refresh")
	dir := t.TempDir()

	oversized := filepath.Join(dir, "scan.pdf")
	if err := os.WriteFile(oversized, bytes.Repeat([]byte("x"), MaxUploadSize+1), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := client.UploadFile(context.Background(), "c1", oversized); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("error=%v, want ErrFileTooLarge", err)
	}

	unsupported := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unsupported, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := client.UploadFile(context.Background(), "c1", unsupported); !errors.Is(err, ErrFileType) {
		t.Fatalf("error=%v, want ErrFileType", err)
	}

	if got := atomic.LoadInt32(&requests); got != 0 {
		t.Fatalf("rejected uploads reached the server %d times", got)
	}
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/products" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("search") != "amoxi" || query.Get("limit") != "500" {
			t.Fatalf("query=%v", query)
		}
		writeData(w, []map[string]string{
			{"_id": "p1", "name": "Amoxicillin 500mg", "sku": "AMX-500"},
			{"_id": "p2", "name": "Amoxicillin 250mg"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("access", "refresh")

	products, err := client.ListProducts(context.Background(), ProductFilter{Search: "amoxi", Limit: 500})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products=%d, want 2", len(products))
	}
	if products[0].ProductID != "p1" || products[0].SKU != "AMX-500" {
		t.Fatalf("product=%+v", products[0])
	}
	if products[1].SKU != "" {
		t.Fatalf("product without sku decoded as %+v", products[1])
	}
}

func TestAskAssistantThreadsHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chatbot" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Message             string     `json:"message"`
			ConversationHistory []ChatTurn `json:"conversationHistory"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		history := append(payload.ConversationHistory,
			ChatTurn{Role: "user", Content: payload.Message},
			ChatTurn{Role: "assistant", Content: "reply to " + payload.Message},
		)
		writeData(w, map[string]interface{}{
			"message":             "reply to " + payload.Message,
			"conversationHistory": history,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{})
	client.SetTokens("access", "refresh")

	reply, history, err := client.AskAssistant(context.Background(), "how many open claims?", nil)
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if reply != "reply to how many open claims?" {
		t.Fatalf("reply=%q", reply)
	}
	if len(history) != 2 {
		t.Fatalf("history after first turn=%d, want 2", len(history))
	}

	// The second turn replays the history from the first.
	_, history, err = client.AskAssistant(context.Background(), "and urgent ones?", history)
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("history after second turn=%d, want 4", len(history))
	}
	if history[0].Content != "how many open claims?" || history[3].Role != "assistant" {
		t.Fatalf("history=%+v", history)
	}
}

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeErrorEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}
