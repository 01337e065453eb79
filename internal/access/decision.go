// Package access は記事本文へのアクセス可否判定を提供する。
package access

import "github.com/deksden/siteapi/internal/model"

// プレビュー表示の理由コード。フロントエンドでの案内表示に使用される。
const (
	// ReasonSignInRequired はサインインが必要な場合の理由。
	ReasonSignInRequired = "sign_in_required"
	// ReasonSubscriptionRequired は有料プランへの加入が必要な場合の理由。
	ReasonSubscriptionRequired = "subscription_required"
)

// Decision はアクセス判定の結果。
// Fullがtrueの場合は全文を返し、falseの場合はプレビューのみ返す。
// Reasonはプレビュー表示の理由（Full=trueの場合は空文字列）。
type Decision struct {
	Full   bool
	Reason string
}

// Decide はセッション状態・記事ティア・購読プランから本文アクセス可否を判定する。
// 判定は以下の優先順で行われる:
//  1. 未認証 → ティアに関わらずプレビューのみ（sign_in_required）
//  2. 認証済み + freeティア記事 → 全文
//  3. 認証済み + premiumティア記事 + premiumプラン → 全文
//  4. 認証済み + premiumティア記事 + freeプラン → プレビューのみ（subscription_required）
//
// planはauthenticated=trueの場合のみ意味を持つ。
// 純粋関数であり、I/Oは行わない。
func Decide(authenticated bool, tier model.Tier, plan model.Plan) Decision {
	if !authenticated {
		return Decision{Full: false, Reason: ReasonSignInRequired}
	}
	if tier != model.TierPremium {
		return Decision{Full: true}
	}
	if plan == model.PlanPremium {
		return Decision{Full: true}
	}
	return Decision{Full: false, Reason: ReasonSubscriptionRequired}
}
