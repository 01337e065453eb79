package repository

import (
	"testing"
	"time"

	"github.com/deksden/siteapi/internal/model"
)

// PostgresArticleRepoはArticleRepositoryインターフェースを満たすことを検証
func TestPostgresArticleRepo_ImplementsInterface(t *testing.T) {
	var _ ArticleRepository = (*PostgresArticleRepo)(nil)
}

// NewPostgresArticleRepoが正しく初期化されることを検証
func TestNewPostgresArticleRepo_Initializes(t *testing.T) {
	repo := NewPostgresArticleRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Articleモデルのフィールドが正しく構築されることを検証
func TestPostgresArticleRepo_ArticleModel_Fields(t *testing.T) {
	now := time.Now()
	article := &model.Article{
		ID:             "a1b2c3d4-0000-0000-0000-000000000001",
		Lang:           model.LocaleRU,
		Slug:           "privet-mir",
		Title:          "Привет, мир",
		Tags:           []string{"golang", "web"},
		Tier:           model.TierPremium,
		TranslationKey: "hello-world",
		Date:           now,
		SyncedAt:       now,
		CreatedAt:      now,
	}

	if article.Lang != model.LocaleRU {
		t.Errorf("article.Lang = %q, want %q", article.Lang, model.LocaleRU)
	}
	if article.Tier != model.TierPremium {
		t.Errorf("article.Tier = %q, want %q", article.Tier, model.TierPremium)
	}
	if len(article.Tags) != 2 {
		t.Errorf("len(article.Tags) = %d, want 2", len(article.Tags))
	}
}

// ArticleのUpdatedAtがnil許容であることを検証
func TestPostgresArticleRepo_ArticleModel_NilUpdatedAt(t *testing.T) {
	article := &model.Article{
		ID:   "a1b2c3d4-0000-0000-0000-000000000002",
		Lang: model.LocaleEN,
		Slug: "hello-world",
	}

	if article.UpdatedAt != nil {
		t.Error("updated_at should be nil by default")
	}
	if article.Draft {
		t.Error("draft should be false by default")
	}
}
