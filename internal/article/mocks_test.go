package article

import (
	"context"
	"io"
	"log/slog"

	"github.com/deksden/siteapi/internal/model"
)

// mockArticleRepo はArticleRepositoryのテスト用モック。
type mockArticleRepo struct {
	findByLangAndSlugFunc             func(ctx context.Context, lang model.Locale, slug string) (*model.Article, error)
	findByIDFunc                      func(ctx context.Context, id string) (*model.Article, error)
	findCanonicalByTranslationKeyFunc func(ctx context.Context, lang model.Locale, key string) (*model.Article, error)
	listPublishedFunc                 func(ctx context.Context, lang model.Locale) ([]model.ArticleCard, error)
	findBodyByArticleIDFunc           func(ctx context.Context, articleID string) (*model.ArticleBody, error)
	upsertFunc                        func(ctx context.Context, article *model.Article) (string, error)
	upsertBodyFunc                    func(ctx context.Context, articleID, bodyHTML string) error
}

func (m *mockArticleRepo) FindByLangAndSlug(ctx context.Context, lang model.Locale, slug string) (*model.Article, error) {
	return m.findByLangAndSlugFunc(ctx, lang, slug)
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockArticleRepo) FindCanonicalByTranslationKey(ctx context.Context, lang model.Locale, key string) (*model.Article, error) {
	return m.findCanonicalByTranslationKeyFunc(ctx, lang, key)
}

func (m *mockArticleRepo) ListPublished(ctx context.Context, lang model.Locale) ([]model.ArticleCard, error) {
	return m.listPublishedFunc(ctx, lang)
}

func (m *mockArticleRepo) FindBodyByArticleID(ctx context.Context, articleID string) (*model.ArticleBody, error) {
	return m.findBodyByArticleIDFunc(ctx, articleID)
}

func (m *mockArticleRepo) Upsert(ctx context.Context, article *model.Article) (string, error) {
	return m.upsertFunc(ctx, article)
}

func (m *mockArticleRepo) UpsertBody(ctx context.Context, articleID, bodyHTML string) error {
	return m.upsertBodyFunc(ctx, articleID, bodyHTML)
}

// mockBookmarkRepo はBookmarkRepositoryのテスト用モック。
type mockBookmarkRepo struct {
	existsFunc         func(ctx context.Context, userID, articleID string) (bool, error)
	createFunc         func(ctx context.Context, userID, articleID string) error
	deleteFunc         func(ctx context.Context, userID, articleID string) error
	listByUserIDFunc   func(ctx context.Context, userID string) ([]model.Bookmark, error)
	deleteByUserIDFunc func(ctx context.Context, userID string) error
}

func (m *mockBookmarkRepo) Exists(ctx context.Context, userID, articleID string) (bool, error) {
	return m.existsFunc(ctx, userID, articleID)
}

func (m *mockBookmarkRepo) Create(ctx context.Context, userID, articleID string) error {
	return m.createFunc(ctx, userID, articleID)
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, userID, articleID string) error {
	return m.deleteFunc(ctx, userID, articleID)
}

func (m *mockBookmarkRepo) ListByUserID(ctx context.Context, userID string) ([]model.Bookmark, error) {
	return m.listByUserIDFunc(ctx, userID)
}

func (m *mockBookmarkRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFunc(ctx, userID)
}

// mockEntitlementRepo はEntitlementRepositoryのテスト用モック。
type mockEntitlementRepo struct {
	listByUserAndKindFunc func(ctx context.Context, userID, kind string) ([]model.Entitlement, error)
	deleteByUserIDFunc    func(ctx context.Context, userID string) error
}

func (m *mockEntitlementRepo) ListByUserAndKind(ctx context.Context, userID, kind string) ([]model.Entitlement, error) {
	if m.listByUserAndKindFunc != nil {
		return m.listByUserAndKindFunc(ctx, userID, kind)
	}
	return nil, nil
}

func (m *mockEntitlementRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFunc != nil {
		return m.deleteByUserIDFunc(ctx, userID)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
