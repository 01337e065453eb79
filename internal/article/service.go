package article

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deksden/siteapi/internal/access"
	"github.com/deksden/siteapi/internal/entitlement"
	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/repository"
	"github.com/deksden/siteapi/internal/tag"
)

// View は記事詳細の表示用データ。アクセス判定の結果を含む。
// Fullがfalseの場合、BodyHTMLは空でPreviewHTMLのみが表示対象となる。
type View struct {
	Article     *model.Article
	CanonicalID string
	BodyHTML    string
	Full        bool
	Reason      string
	Bookmarked  bool
}

// Service は記事の取得・一覧機能を提供するサービス。
type Service struct {
	articleRepo  repository.ArticleRepository
	bookmarkRepo repository.BookmarkRepository
	entitlements *entitlement.Service
	canonical    *CanonicalResolver
	logger       *slog.Logger
}

// NewService はServiceを生成する。
func NewService(
	articleRepo repository.ArticleRepository,
	bookmarkRepo repository.BookmarkRepository,
	entitlements *entitlement.Service,
	canonical *CanonicalResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		articleRepo:  articleRepo,
		bookmarkRepo: bookmarkRepo,
		entitlements: entitlements,
		canonical:    canonical,
		logger:       logger,
	}
}

// GetArticleView は(lang, slug)の記事詳細をアクセス判定込みで取得する。
// userIDが空文字列の場合は未認証として扱う。
//
// 処理の流れ:
//  1. ロケールとslug形式の検証。不正な形はバリデーションエラーではなく
//     記事なし(404)として扱う。
//  2. 記事の取得。下書きも(lang, slug)の完全一致なら取得できる。
//  3. プラン解決とアクセス判定。未認証の場合は権利クエリを発行しない。
//  4. 全文許可の場合のみ本文を取得する。本文行が物理的に存在しない場合は
//     プレビュー表示へ縮退する(エラーにはしない)。
//  5. 正本IDの解決とブックマーク状態の取得。
func (s *Service) GetArticleView(ctx context.Context, lang model.Locale, slug, userID string) (*View, error) {
	if !model.IsSiteLocale(lang) || !model.IsValidSlug(slug) {
		return nil, model.NewArticleNotFoundError(string(lang), slug)
	}

	a, err := s.articleRepo.FindByLangAndSlug(ctx, lang, slug)
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}
	if a == nil {
		return nil, model.NewArticleNotFoundError(string(lang), slug)
	}

	authenticated := userID != ""

	plan := model.PlanFree
	if authenticated {
		plan, err = s.entitlements.ResolvePlan(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("プランの解決に失敗しました: %w", err)
		}
	}

	decision := access.Decide(authenticated, a.Tier, plan)

	view := &View{
		Article: a,
		Full:    decision.Full,
		Reason:  decision.Reason,
	}

	// 未認証や購読不足で本文を返さない場合は本文取得自体を行わない。
	if decision.Full {
		body, err := s.articleRepo.FindBodyByArticleID(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("記事本文の取得に失敗しました: %w", err)
		}
		if body == nil {
			// 本文が未投入の記事はプレビュー表示へ縮退する。
			// アクセス権は満たしているため理由コードは付けない。
			s.logger.Warn("本文行が存在しないためプレビュー表示へ縮退します",
				slog.String("article_id", a.ID))
			view.Full = false
		} else {
			view.BodyHTML = body.BodyHTML
		}
	}

	// プレビュー表示(縮退を含む)ではプレビュー本文を返す。
	if !view.Full {
		view.BodyHTML = a.PreviewHTML
	}

	view.CanonicalID = s.canonical.CanonicalID(ctx, a)

	if authenticated {
		bookmarked, err := s.bookmarkRepo.Exists(ctx, userID, view.CanonicalID)
		if err != nil {
			return nil, fmt.Errorf("ブックマーク状態の取得に失敗しました: %w", err)
		}
		view.Bookmarked = bookmarked
	}

	return view, nil
}

// ListArticles は公開済み記事の一覧をタグ絞り込み付きで返す。
// tagsQueryはカンマ区切りのタグ指定文字列。形式に合わないタグは黙って
// 除外され、有効なタグがない場合は絞り込みなしの一覧を返す。
func (s *Service) ListArticles(ctx context.Context, lang model.Locale, tagsQuery string) ([]model.ArticleCard, error) {
	if !model.IsSiteLocale(lang) {
		return nil, model.NewInvalidRequestError("unsupported locale")
	}

	cards, err := s.articleRepo.ListPublished(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}

	return tag.Filter(cards, tag.ParseQuery(tagsQuery)), nil
}

// TagCounts は公開済み記事のタグ別件数を返す。
// 集計対象はListArticlesが返すのと同じ記事集合(公開済み・非下書き)。
func (s *Service) TagCounts(ctx context.Context, lang model.Locale) ([]tag.Count, error) {
	if !model.IsSiteLocale(lang) {
		return nil, model.NewInvalidRequestError("unsupported locale")
	}

	cards, err := s.articleRepo.ListPublished(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}

	return tag.Counts(cards), nil
}
