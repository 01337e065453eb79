// Package bookmark は正本記事ID単位のブックマークのトグルと一覧を提供する。
package bookmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deksden/siteapi/internal/article"
	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/repository"
)

// Ref はトグル対象の記事参照。
// TranslationKeyが指定されている場合はそちらを優先して解決する。
// 生のArticleIDは非正本の翻訳版自身のIDである可能性があるため。
type Ref struct {
	ArticleID      string
	TranslationKey string
}

// State はトグル後のブックマーク状態。
type State struct {
	Bookmarked bool `json:"bookmarked"`
}

// Service はブックマークのトグルと一覧を提供するサービス。
type Service struct {
	bookmarkRepo repository.BookmarkRepository
	articleRepo  repository.ArticleRepository
	canonical    *article.CanonicalResolver
	logger       *slog.Logger
}

// NewService はServiceを生成する。
func NewService(
	bookmarkRepo repository.BookmarkRepository,
	articleRepo repository.ArticleRepository,
	canonical *article.CanonicalResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		bookmarkRepo: bookmarkRepo,
		articleRepo:  articleRepo,
		canonical:    canonical,
		logger:       logger,
	}
}

// Toggle は(userID, 正本記事ID)のブックマークをトグルする。
// 存在すれば削除してbookmarked=false、なければ作成してbookmarked=trueを返す。
//
// userIDが空の場合はUNAUTHORIZEDを返す。
// refが正本記事IDへ解決できない場合はINVALID_REFERENCEを返す。
//
// 存在確認と書き込みの間にはロックを取らないため、二重送信が重複挿入として
// 競合しうる。その場合はストレージのUNIQUE制約違反を「既にブックマーク済み」
// として扱い、エラーにはしない。
func (s *Service) Toggle(ctx context.Context, userID string, ref Ref) (*State, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError()
	}

	canonicalID, err := s.resolveCanonicalID(ctx, ref)
	if err != nil {
		return nil, err
	}

	exists, err := s.bookmarkRepo.Exists(ctx, userID, canonicalID)
	if err != nil {
		return nil, fmt.Errorf("ブックマークの存在確認に失敗しました: %w", err)
	}

	if exists {
		if err := s.bookmarkRepo.Delete(ctx, userID, canonicalID); err != nil {
			return nil, fmt.Errorf("ブックマークの削除に失敗しました: %w", err)
		}
		return &State{Bookmarked: false}, nil
	}

	if err := s.bookmarkRepo.Create(ctx, userID, canonicalID); err != nil {
		if errors.Is(err, repository.ErrDuplicateBookmark) {
			// 二重送信の競合。既に挿入済みなので成功として扱う。
			s.logger.Info("重複挿入を既存ブックマークとして扱います",
				slog.String("user_id", userID),
				slog.String("article_id", canonicalID))
			return &State{Bookmarked: true}, nil
		}
		return nil, fmt.Errorf("ブックマークの作成に失敗しました: %w", err)
	}

	return &State{Bookmarked: true}, nil
}

// resolveCanonicalID は記事参照を正本記事IDへ解決する。
func (s *Service) resolveCanonicalID(ctx context.Context, ref Ref) (string, error) {
	if ref.TranslationKey != "" {
		canonical, err := s.canonical.ResolveByTranslationKey(ctx, ref.TranslationKey)
		if err != nil {
			return "", fmt.Errorf("翻訳キーの解決に失敗しました: %w", err)
		}
		if canonical != nil {
			return canonical.ID, nil
		}
		// 正本ロケールに対応記事がない翻訳キーは記事ID経由の解決へ進む。
	}

	if ref.ArticleID == "" {
		return "", model.NewInvalidReferenceError(ref.TranslationKey)
	}
	if _, err := uuid.Parse(ref.ArticleID); err != nil {
		return "", model.NewInvalidReferenceError(ref.ArticleID)
	}

	a, err := s.articleRepo.FindByID(ctx, ref.ArticleID)
	if err != nil {
		return "", fmt.Errorf("記事の取得に失敗しました: %w", err)
	}
	if a == nil {
		return "", model.NewInvalidReferenceError(ref.ArticleID)
	}

	return s.canonical.CanonicalID(ctx, a), nil
}

// List は指定ユーザーのブックマーク一覧を作成日時降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]model.Bookmark, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError()
	}

	bookmarks, err := s.bookmarkRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ブックマーク一覧の取得に失敗しました: %w", err)
	}
	return bookmarks, nil
}
