package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/deksden/siteapi/internal/article"
	"github.com/deksden/siteapi/internal/middleware"
	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/tag"
	"github.com/go-chi/chi/v5"
)

// ArticleServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type ArticleServiceInterface interface {
	// GetArticleView は(lang, slug)の記事詳細をアクセス判定込みで取得する。
	GetArticleView(ctx context.Context, lang model.Locale, slug, userID string) (*article.View, error)
	// ListArticles は公開記事の一覧をタグフィルタ付きで取得する。
	ListArticles(ctx context.Context, lang model.Locale, tagsQuery string) ([]model.ArticleCard, error)
	// TagCounts はロケールごとのタグ集計を取得する。
	TagCounts(ctx context.Context, lang model.Locale) ([]tag.Count, error)
}

// MetricsRecorder はハンドラーがドメインイベントを記録するためのインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordArticleView(lang string)
	RecordAccessDecision(outcome string, reason string)
	RecordBookmarkToggle(result string)
}

// noopMetrics は何も記録しないMetricsRecorder。テストやメトリクス無効時に使う。
type noopMetrics struct{}

func (noopMetrics) RecordArticleView(string)            {}
func (noopMetrics) RecordAccessDecision(string, string) {}
func (noopMetrics) RecordBookmarkToggle(string)         {}

// ArticleHandler は記事閲覧のHTTPハンドラー。
type ArticleHandler struct {
	service ArticleServiceInterface
	metrics MetricsRecorder
}

// NewArticleHandler はArticleHandlerを生成する。
// recorderがnilの場合はメトリクスを記録しない。
func NewArticleHandler(service ArticleServiceInterface, recorder MetricsRecorder) *ArticleHandler {
	if recorder == nil {
		recorder = noopMetrics{}
	}
	return &ArticleHandler{
		service: service,
		metrics: recorder,
	}
}

// articleCardResponse は記事一覧のAPIレスポンス。
type articleCardResponse struct {
	ID                 string   `json:"id"`
	Lang               string   `json:"lang"`
	Slug               string   `json:"slug"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Date               string   `json:"date"`
	UpdatedAt          *string  `json:"updated_at,omitempty"`
	Tags               []string `json:"tags"`
	Tier               string   `json:"tier"`
	TranslationKey     string   `json:"translation_key,omitempty"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
}

// articleViewResponse は記事詳細のAPIレスポンス。
// Fullがfalseの場合、bodyにはプレビューHTMLが入りreasonが全文非表示の理由を示す。
type articleViewResponse struct {
	articleCardResponse
	CanonicalID string `json:"canonical_id"`
	BodyHTML    string `json:"body_html"`
	Full        bool   `json:"full"`
	Reason      string `json:"reason,omitempty"`
	Bookmarked  bool   `json:"bookmarked"`
}

// tagCountResponse はタグ集計のAPIレスポンス。
type tagCountResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListArticles は公開記事の一覧を返す。
// GET /api/articles?lang=ru&tags=go,postgres
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	tagsQuery := r.URL.Query().Get("tags")

	cards, err := h.service.ListArticles(r.Context(), model.Locale(lang), tagsQuery)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]articleCardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, toArticleCardResponse(card))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"articles": responses,
	})
}

// GetArticle は記事詳細を返す。
// GET /api/articles/{lang}/{slug}
//
// 未認証の場合は空のuserIDでサービスを呼び出し、アクセス判定は
// プレビュー表示となる。
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	slug := chi.URLParam(r, "slug")
	userID := middleware.OptionalUserIDFromContext(r.Context())

	view, err := h.service.GetArticleView(r.Context(), model.Locale(lang), slug, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordArticleView(string(view.Article.Lang))
	outcome := "preview"
	if view.Full {
		outcome = "full"
	}
	h.metrics.RecordAccessDecision(outcome, view.Reason)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toArticleViewResponse(view))
}

// ListTags はロケールごとのタグ集計を返す。
// GET /api/tags?lang=ru
func (h *ArticleHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")

	counts, err := h.service.TagCounts(r.Context(), model.Locale(lang))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]tagCountResponse, 0, len(counts))
	for _, c := range counts {
		responses = append(responses, tagCountResponse{Tag: c.Tag, Count: c.Count})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tags": responses,
	})
}

// --- ヘルパー関数 ---

// toArticleCardResponse はmodel.ArticleCardからAPIレスポンスに変換する。
func toArticleCardResponse(card model.ArticleCard) articleCardResponse {
	resp := articleCardResponse{
		ID:                 card.ID,
		Lang:               string(card.Lang),
		Slug:               card.Slug,
		Title:              card.Title,
		Description:        card.Description,
		Date:               card.Date.Format(time.RFC3339),
		Tags:               card.Tags,
		Tier:               string(card.Tier),
		TranslationKey:     card.TranslationKey,
		ReadingTimeMinutes: card.ReadingTimeMinutes,
	}
	if card.UpdatedAt != nil {
		updated := card.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

// toArticleViewResponse はarticle.ViewからAPIレスポンスに変換する。
func toArticleViewResponse(view *article.View) articleViewResponse {
	a := view.Article
	card := model.ArticleCard{
		ID:                 a.ID,
		Lang:               a.Lang,
		Slug:               a.Slug,
		Title:              a.Title,
		Description:        a.Description,
		Date:               a.Date,
		UpdatedAt:          a.UpdatedAt,
		Tags:               a.Tags,
		Tier:               a.Tier,
		TranslationKey:     a.TranslationKey,
		ReadingTimeMinutes: a.ReadingTimeMinutes,
	}
	return articleViewResponse{
		articleCardResponse: toArticleCardResponse(card),
		CanonicalID:         view.CanonicalID,
		BodyHTML:            view.BodyHTML,
		Full:                view.Full,
		Reason:              view.Reason,
		Bookmarked:          view.Bookmarked,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeInternal,
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Please wait a moment and try again.",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeArticleNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidReference, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
