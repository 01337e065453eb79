package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/user"
)

// --- モック定義 ---

// mockAccountService はAccountServiceInterfaceのモック実装。
type mockAccountService struct {
	getAccountFn func(ctx context.Context, userID string) (*user.Account, error)
	withdrawFn   func(ctx context.Context, userID string) error
}

func (m *mockAccountService) GetAccount(ctx context.Context, userID string) (*user.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAccountService) Withdraw(ctx context.Context, userID string) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(ctx, userID)
	}
	return nil
}

// --- GET /api/account/me テスト ---

func TestAccountHandler_GetAccount_Success(t *testing.T) {
	svc := &mockAccountService{
		getAccountFn: func(ctx context.Context, userID string) (*user.Account, error) {
			return &user.Account{
				User: &model.User{
					ID:    userID,
					Email: "reader@example.com",
					Name:  "Reader",
				},
				Plan: model.PlanPremium,
				Identities: []model.Identity{
					{Provider: "google", ProviderUserID: "g-1"},
				},
			}, nil
		},
	}
	bookmarks := &mockBookmarkService{
		listFn: func(ctx context.Context, userID string) ([]model.Bookmark, error) {
			return []model.Bookmark{
				{UserID: userID, ArticleID: "11111111-1111-1111-1111-111111111111", CreatedAt: time.Now()},
			}, nil
		},
	}

	h := NewAccountHandler(svc, bookmarks)

	req := httptest.NewRequest(http.MethodGet, "/api/account/me", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.GetAccount(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Email != "reader@example.com" {
		t.Errorf("email = %q, want reader@example.com", body.Email)
	}
	if body.Plan != string(model.PlanPremium) {
		t.Errorf("plan = %q, want premium", body.Plan)
	}
	if len(body.Providers) != 1 || body.Providers[0] != "google" {
		t.Errorf("providers = %v, want [google]", body.Providers)
	}
	if len(body.BookmarkedArticleIDs) != 1 {
		t.Errorf("bookmarked ids = %v, want 1 entry", body.BookmarkedArticleIDs)
	}
}

func TestAccountHandler_GetAccount_Unauthenticated_Returns401(t *testing.T) {
	h := NewAccountHandler(&mockAccountService{}, &mockBookmarkService{})

	req := httptest.NewRequest(http.MethodGet, "/api/account/me", nil)
	w := httptest.NewRecorder()

	h.GetAccount(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAccountHandler_GetAccount_UserNotFound_Returns404(t *testing.T) {
	svc := &mockAccountService{
		getAccountFn: func(ctx context.Context, userID string) (*user.Account, error) {
			return nil, model.NewUserNotFoundError()
		},
	}

	h := NewAccountHandler(svc, &mockBookmarkService{})

	req := httptest.NewRequest(http.MethodGet, "/api/account/me", nil)
	req = withUserID(req, "missing-user")
	w := httptest.NewRecorder()

	h.GetAccount(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeUserNotFound)
	}
}

// --- DELETE /api/users/me テスト ---

func TestAccountHandler_Withdraw_Success(t *testing.T) {
	called := false
	svc := &mockAccountService{
		withdrawFn: func(ctx context.Context, userID string) error {
			called = true
			if userID != "user-123" {
				t.Errorf("userID = %q, want %q", userID, "user-123")
			}
			return nil
		},
	}

	h := NewAccountHandler(svc, &mockBookmarkService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/me", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Withdraw(w, req)

	if !called {
		t.Fatal("Withdraw should be called")
	}
	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
}

func TestAccountHandler_Withdraw_Unauthenticated_Returns401(t *testing.T) {
	h := NewAccountHandler(&mockAccountService{}, &mockBookmarkService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/me", nil)
	w := httptest.NewRecorder()

	h.Withdraw(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
