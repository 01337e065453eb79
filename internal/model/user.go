// Package model はドメインモデルを定義する。
package model

import "time"

// User はサイトの登録読者を表す。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 複数のIdP（Google, GitHub等）を同一ユーザーに紐付けられる構造。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// プランやブックマークは保持しない。それらはリクエストごとに導出する。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Entitlement はユーザーの購読権利レコードを表す。
// EndsAtがnilまたは未来であればアクティブ。課金は手動運用のため、
// レコードの発行はこのサービスの外で行われる。
type Entitlement struct {
	ID        string
	UserID    string
	Kind      string     // 現状は "premium" のみ
	EndsAt    *time.Time // nilは無期限
	CreatedAt time.Time
}

// Bookmark はユーザーと正本記事の組を表す。
// ArticleIDは常に正本（canonical）記事のID。翻訳variant自身のIDは格納しない。
type Bookmark struct {
	UserID    string
	ArticleID string
	CreatedAt time.Time
}
