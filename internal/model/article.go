// Package model はドメインモデルを定義する。
package model

import (
	"regexp"
	"time"
)

// Locale はサイトがサポートする表示言語を表す。
type Locale string

const (
	// LocaleRU はロシア語ロケール。サイトのデフォルトロケール。
	LocaleRU Locale = "ru"
	// LocaleEN は英語ロケール。
	LocaleEN Locale = "en"
)

// CanonicalLocale は正本（canonical）記事を決定するロケール。
// translationKeyを共有する翻訳variantのうち、このロケールの記事が
// ブックマークの帰属先になる。
const CanonicalLocale = LocaleRU

// SiteLocales はサポートするロケールの一覧。
var SiteLocales = []Locale{LocaleRU, LocaleEN}

// IsSiteLocale は値がサポート対象のロケールかどうかを返す。
func IsSiteLocale(locale Locale) bool {
	for _, supported := range SiteLocales {
		if supported == locale {
			return true
		}
	}
	return false
}

// slugPattern はslugおよびタグトークンの形式。
// 小文字英数字をハイフンで区切ったトークンのみ許可する。
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug は値がslug/タグトークンの形式を満たすかどうかを返す。
func IsValidSlug(value string) bool {
	return slugPattern.MatchString(value)
}

// Tier は記事ごとの閲覧ゲートを表す。読者のプラン(Plan)とは独立。
type Tier string

const (
	// TierFree は認証のみで全文を閲覧できる記事。
	TierFree Tier = "free"
	// TierPremium はpremiumプランの読者のみ全文を閲覧できる記事。
	TierPremium Tier = "premium"
)

// Plan は読者の購読状態を表す。entitlementsレコードから導出される。
type Plan string

const (
	// PlanFree は無償プラン。匿名セッションは常にこのプラン。
	PlanFree Plan = "free"
	// PlanPremium は有効なpremium entitlementを持つ読者のプラン。
	PlanPremium Plan = "premium"
)

// Article は記事のメタデータとプレビュー本文を表す。
// (Lang, Slug)の組は一意。全文本文はArticleBodyとして別に保持する。
type Article struct {
	ID                 string
	Lang               Locale
	Slug               string
	Title              string
	Description        string
	Date               time.Time
	UpdatedAt          *time.Time // コンテンツの改訂日。未改訂ならnil。
	Tags               []string
	Tier               Tier
	TranslationKey     string // 翻訳variant間で共有するキー。未翻訳なら空。
	Draft              bool
	ReadingTimeMinutes int
	PreviewHTML        string // 常に閲覧可能なプレビュー本文
	SyncedAt           time.Time
	CreatedAt          time.Time
}

// ArticleCard は記事一覧用のメタデータサブセット。本文を含まない。
type ArticleCard struct {
	ID                 string
	Lang               Locale
	Slug               string
	Title              string
	Description        string
	Date               time.Time
	UpdatedAt          *time.Time
	Tags               []string
	Tier               Tier
	TranslationKey     string
	ReadingTimeMinutes int
}

// ArticleBody はゲート対象の全文本文を表す。
// articlesとは別テーブルに保持し、行の有無が本文の物理的な存在を表す。
// 行が存在しない場合、アクセス判定がFullBodyでもプレビュー表示に縮退する。
type ArticleBody struct {
	ArticleID string
	BodyHTML  string
	UpdatedAt time.Time
}
