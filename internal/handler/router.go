package handler

import (
	"log/slog"
	"net/http"

	"github.com/deksden/siteapi/internal/metrics"
	"github.com/deksden/siteapi/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// registerAuthRoutes は認証関連のルーティングをルーターに登録する。
func registerAuthRoutes(r chi.Router, h *AuthHandler) {
	r.Route("/auth", func(r chi.Router) {
		// OAuthフロー
		r.Get("/google/login", h.Login)
		r.Get("/google/callback", h.Callback)

		// セッション管理
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 記事閲覧
	ArticleService ArticleServiceInterface

	// ブックマーク
	BookmarkService BookmarkServiceInterface

	// アカウント
	AccountService AccountServiceInterface

	// メトリクス（nilの場合は記録しない）
	Metrics metrics.MetricsCollector

	// Prometheusスクレイプ用ハンドラー
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → Session → RateLimit
//
// 記事閲覧ルートは未認証でもアクセスできるため、OptionalSessionを使う。
// アカウント関連ルートはRequireSessionとAPI全般レート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	var recorder MetricsRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	articleHandler := NewArticleHandler(deps.ArticleService, recorder)
	bookmarkHandler := NewBookmarkHandler(deps.BookmarkService, recorder)
	accountHandler := NewAccountHandler(deps.AccountService, deps.BookmarkService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// 認証ルート（OAuthフロー）
	registerAuthRoutes(r, authHandler)

	// --- 公開ルート ---
	// セッションがあればユーザーIDを注入するが、なくても匿名として続行する。
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOptionalSessionMiddleware(deps.SessionFinder))

		r.Get("/api/articles", articleHandler.ListArticles)
		r.Get("/api/articles/{lang}/{slug}", articleHandler.GetArticle)
		r.Get("/api/tags", articleHandler.ListTags)

		// ブックマークトグルは匿名リクエストをログインへ誘導するため公開側に置く。
		// トグル専用レート制限を適用する。
		r.With(deps.RateLimiter.ToggleMiddleware()).Post("/api/bookmarks/toggle", bookmarkHandler.Toggle)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/bookmarks", bookmarkHandler.List)
		r.Get("/api/account/me", accountHandler.GetAccount)
		r.Delete("/api/users/me", accountHandler.Withdraw)
	})

	return r
}
