package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deksden/siteapi/internal/bookmark"
	"github.com/deksden/siteapi/internal/middleware"
	"github.com/deksden/siteapi/internal/model"
)

// loginPath はブラウザモードで未認証時にリダイレクトするログインURL。
const loginPath = "/auth/google/login"

// BookmarkServiceInterface はブックマークハンドラーが必要とするサービスインターフェース。
type BookmarkServiceInterface interface {
	// Toggle はブックマークの追加・削除を切り替え、結果の状態を返す。
	Toggle(ctx context.Context, userID string, ref bookmark.Ref) (*bookmark.State, error)
	// List はユーザーのブックマーク一覧を返す。
	List(ctx context.Context, userID string) ([]model.Bookmark, error)
}

// BookmarkHandler はブックマーク操作のHTTPハンドラー。
type BookmarkHandler struct {
	service BookmarkServiceInterface
	metrics MetricsRecorder
}

// NewBookmarkHandler はBookmarkHandlerを生成する。
// recorderがnilの場合はメトリクスを記録しない。
func NewBookmarkHandler(service BookmarkServiceInterface, recorder MetricsRecorder) *BookmarkHandler {
	if recorder == nil {
		recorder = noopMetrics{}
	}
	return &BookmarkHandler{
		service: service,
		metrics: recorder,
	}
}

// bookmarkStateResponse はトグル結果のAPIレスポンス。
type bookmarkStateResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// bookmarkResponse はブックマーク一覧のAPIレスポンス。
type bookmarkResponse struct {
	ArticleID string `json:"article_id"`
	CreatedAt string `json:"created_at"`
}

// Toggle はブックマークのトグルを処理する。
// POST /api/bookmarks/toggle
//
// フォームフィールド: lang, article_id, translation_key, next。
// Acceptヘッダーがapplication/jsonの場合はJSONで状態を返し、
// それ以外（ブラウザのフォーム送信）は303でnextにリダイレクトする。
// nextが不正な場合はlangのトップページに差し替える。
// 未認証のブラウザリクエストはnextを保持したままログインURLへ誘導する。
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	wantsJSON := acceptsJSON(r)
	next := safeNextPath(r.PostFormValue("next"), localeHome(r.PostFormValue("lang")))

	userID := middleware.OptionalUserIDFromContext(r.Context())
	if userID == "" {
		if wantsJSON {
			writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
			return
		}
		loginURL := loginPath + "?next=" + url.QueryEscape(next)
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}

	ref := bookmark.Ref{
		ArticleID:      r.PostFormValue("article_id"),
		TranslationKey: r.PostFormValue("translation_key"),
	}

	state, err := h.service.Toggle(r.Context(), userID, ref)
	if err != nil {
		if wantsJSON {
			handleServiceError(w, err)
			return
		}
		// ブラウザモードではエラーでも元のページに戻す
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	result := "removed"
	if state.Bookmarked {
		result = "added"
	}
	h.metrics.RecordBookmarkToggle(result)

	if wantsJSON {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bookmarkStateResponse{Bookmarked: state.Bookmarked})
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// List はユーザーのブックマーク一覧を返す。
// GET /api/bookmarks
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	bookmarks, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]bookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		responses = append(responses, bookmarkResponse{
			ArticleID: b.ArticleID,
			CreatedAt: b.CreatedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bookmarks": responses,
	})
}

// acceptsJSON はリクエストがJSONレスポンスを要求しているかを返す。
func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// safeNextPath はリダイレクト先を検証する。
// オープンリダイレクトを防ぐため、サイト内の相対パスのみ許可する。
// 不正な場合はfallbackに差し替える。
func safeNextPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}

// localeHome はロケールのトップページパスを返す。
// 未対応ロケールはサイトルートに落とす。
func localeHome(lang string) string {
	if model.IsSiteLocale(model.Locale(lang)) {
		return "/" + lang + "/"
	}
	return "/"
}
