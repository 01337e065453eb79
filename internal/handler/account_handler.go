package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/deksden/siteapi/internal/middleware"
	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/user"
)

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// GetAccount はアカウント画面用のユーザー情報を取得する。
	GetAccount(ctx context.Context, userID string) (*user.Account, error)
	// Withdraw はユーザーの退会処理を実行する。
	// bookmarks → entitlements → sessions → userの順に削除する。
	Withdraw(ctx context.Context, userID string) error
}

// BookmarkLister はアカウント画面用のブックマーク一覧取得インターフェース。
type BookmarkLister interface {
	List(ctx context.Context, userID string) ([]model.Bookmark, error)
}

// AccountHandler はアカウント管理のHTTPハンドラー。
type AccountHandler struct {
	service   AccountServiceInterface
	bookmarks BookmarkLister
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface, bookmarks BookmarkLister) *AccountHandler {
	return &AccountHandler{
		service:   service,
		bookmarks: bookmarks,
	}
}

// accountResponse はアカウント画面用のAPIレスポンス。
type accountResponse struct {
	ID                   string   `json:"id"`
	Email                string   `json:"email"`
	Name                 string   `json:"name"`
	Plan                 string   `json:"plan"`
	Providers            []string `json:"providers"`
	BookmarkedArticleIDs []string `json:"bookmarked_article_ids"`
}

// GetAccount はアカウント情報を返す。
// GET /api/account/me
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	account, err := h.service.GetAccount(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	bookmarks, err := h.bookmarks.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	providers := make([]string, 0, len(account.Identities))
	for _, ident := range account.Identities {
		providers = append(providers, ident.Provider)
	}

	articleIDs := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		articleIDs = append(articleIDs, b.ArticleID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountResponse{
		ID:                   account.User.ID,
		Email:                account.User.Email,
		Name:                 account.User.Name,
		Plan:                 string(account.Plan),
		Providers:            providers,
		BookmarkedArticleIDs: articleIDs,
	})
}

// Withdraw はユーザーの退会処理を実行する。
// DELETE /api/users/me
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
