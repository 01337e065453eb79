// Package article は記事の取得・一覧・正本ID解決を提供する。
//
// 正本ID(canonical ID)は翻訳版どうしで共有される単一の記事識別子。
// ブックマークは常に正本IDに対して保存され、どの言語版から操作しても
// 同一のブックマークとして扱われる。
package article

import (
	"context"
	"log/slog"

	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/repository"
)

// CanonicalResolver は記事の正本IDを解決する。
type CanonicalResolver struct {
	articleRepo repository.ArticleRepository
	logger      *slog.Logger
}

// NewCanonicalResolver はCanonicalResolverを生成する。
func NewCanonicalResolver(articleRepo repository.ArticleRepository, logger *slog.Logger) *CanonicalResolver {
	return &CanonicalResolver{
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// CanonicalID は記事の正本IDを解決する。
// translation_keyが空の場合は記事自身のIDを返す(自身が正本)。
// translation_keyがある場合は正本ロケール(ru)で同じキーを持つ公開記事を検索し、
// 見つかればそのIDを返す。検索エラーまたは該当なしの場合は元記事自身のIDへ
// フォールバックする。壊れた翻訳リンクがブックマーク操作を妨げてはならないため、
// このフォールバックは意図的な仕様であり、エラーにはしない。
// 冪等: 正本記事に対して再度呼んでも同じIDを返す。
func (r *CanonicalResolver) CanonicalID(ctx context.Context, a *model.Article) string {
	if a.TranslationKey == "" {
		return a.ID
	}

	canonical, err := r.articleRepo.FindCanonicalByTranslationKey(ctx, model.CanonicalLocale, a.TranslationKey)
	if err != nil {
		r.logger.Warn("正本記事の解決に失敗したため自身のIDへフォールバックします",
			slog.String("article_id", a.ID),
			slog.String("translation_key", a.TranslationKey),
			slog.String("error", err.Error()))
		return a.ID
	}
	if canonical == nil {
		r.logger.Warn("正本ロケールに対応する記事が見つからないため自身のIDへフォールバックします",
			slog.String("article_id", a.ID),
			slog.String("translation_key", a.TranslationKey))
		return a.ID
	}

	return canonical.ID
}

// ResolveByTranslationKey はtranslation_keyから正本記事を検索する。
// ブックマーク操作でキーが直接指定された場合に使用される。
// 見つからない場合はnilを返す(フォールバックはしない。呼び出し側が
// 記事ID経由の解決を試みる)。
func (r *CanonicalResolver) ResolveByTranslationKey(ctx context.Context, key string) (*model.Article, error) {
	return r.articleRepo.FindCanonicalByTranslationKey(ctx, model.CanonicalLocale, key)
}
