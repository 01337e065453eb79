// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/deksden/siteapi/internal/model"
)

// ErrDuplicateBookmark は同一の(user_id, article_id)が既に存在する場合に
// Createが返すエラー。チェックと挿入の間のレースでUNIQUE制約に弾かれた
// ケースであり、呼び出し側は「既にブックマーク済み」として扱う。
var ErrDuplicateBookmark = errors.New("bookmark already exists")

// ArticleRepository は記事データの永続化インターフェース。
// リクエスト経路からは読み取り専用で、書き込みはコンテンツ同期のみが行う。
type ArticleRepository interface {
	// FindByLangAndSlug は(lang, slug)で記事を取得する。見つからない場合はnilを返す。
	// 下書き（draft）も取得できる。限定公開のプレビューリンクを許すための仕様。
	FindByLangAndSlug(ctx context.Context, lang model.Locale, slug string) (*model.Article, error)

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// FindCanonicalByTranslationKey は指定ロケールでtranslation_keyを共有する
	// 公開済み記事を取得する。見つからない場合はnilを返す。
	FindCanonicalByTranslationKey(ctx context.Context, lang model.Locale, key string) (*model.Article, error)

	// ListPublished は公開済み記事（draft=false）の一覧をdate降順で返す。
	// 日付が同じ場合は登録順で安定させる。
	ListPublished(ctx context.Context, lang model.Locale) ([]model.ArticleCard, error)

	// FindBodyByArticleID はゲート対象の全文本文を取得する。
	// 行が存在しない場合はnilを返す（本文が物理的に未投入の状態）。
	FindBodyByArticleID(ctx context.Context, articleID string) (*model.ArticleBody, error)

	// Upsert は記事メタデータを(lang, slug)キーでUPSERTし、確定したIDを返す。
	// 既存行がある場合はIDを維持したままメタデータを上書きする。
	Upsert(ctx context.Context, article *model.Article) (string, error)

	// UpsertBody は全文本文をUPSERTする。
	UpsertBody(ctx context.Context, articleID, bodyHTML string) error
}

// EntitlementRepository は購読権利レコードの永続化インターフェース。
type EntitlementRepository interface {
	// ListByUserAndKind は指定ユーザーの指定kindのレコードを全件返す。
	// 有効期限の判定は呼び出し側（entitlementサービス）が行う。
	ListByUserAndKind(ctx context.Context, userID, kind string) ([]model.Entitlement, error)

	// DeleteByUserID は指定ユーザーの全レコードを削除する。退会処理用。
	DeleteByUserID(ctx context.Context, userID string) error
}

// BookmarkRepository はブックマークの永続化インターフェース。
// article_idは常に正本記事のIDで渡されることを前提とする。
type BookmarkRepository interface {
	// Exists は(userID, articleID)のブックマークが存在するかを返す。
	Exists(ctx context.Context, userID, articleID string) (bool, error)

	// Create はブックマークを作成する。
	// UNIQUE制約違反の場合はErrDuplicateBookmarkを返す。
	Create(ctx context.Context, userID, articleID string) error

	// Delete は(userID, articleID)のブックマークを削除する。
	Delete(ctx context.Context, userID, articleID string) error

	// ListByUserID は指定ユーザーのブックマーク一覧を作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]model.Bookmark, error)

	// DeleteByUserID は指定ユーザーの全ブックマークを削除する。退会処理用。
	DeleteByUserID(ctx context.Context, userID string) error
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// DeleteByID は指定IDのユーザーを削除する。identitiesはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)

	// ListByUserID は指定ユーザーのidentity一覧を返す。アカウント画面用。
	ListByUserID(ctx context.Context, userID string) ([]model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}
