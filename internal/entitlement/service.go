// Package entitlement は購読権利の判定とプラン解決を提供する。
package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/repository"
)

// KindPremium はpremiumプランに対応する権利種別。
const KindPremium = "premium"

// IsActivePremium は権利レコード集合から有効なpremium権利の有無を判定する。
// レコードはends_atがnull（無期限）またはnowより厳密に未来の場合に有効とみなす。
// 有効なレコードがひとつでもあればtrueを返す。
// 純粋関数であり、I/Oは行わない。
func IsActivePremium(records []model.Entitlement, now time.Time) bool {
	for _, r := range records {
		if r.EndsAt == nil || r.EndsAt.After(now) {
			return true
		}
	}
	return false
}

// Service はユーザーの購読プランを解決するサービス。
type Service struct {
	entitlementRepo repository.EntitlementRepository
}

// NewService はServiceを生成する。
func NewService(entitlementRepo repository.EntitlementRepository) *Service {
	return &Service{entitlementRepo: entitlementRepo}
}

// ResolvePlan は指定ユーザーの現在のプランを解決する。
// premium種別の権利レコードを取得し、有効なものがあればPlanPremiumを返す。
// 未認証ユーザーに対しては呼び出し側がこのメソッドを呼ばずにPlanFreeを使うこと
// （認証されていないトラフィックに権利クエリを発行しないため）。
func (s *Service) ResolvePlan(ctx context.Context, userID string) (model.Plan, error) {
	records, err := s.entitlementRepo.ListByUserAndKind(ctx, userID, KindPremium)
	if err != nil {
		return model.PlanFree, fmt.Errorf("権利レコードの取得に失敗しました: %w", err)
	}

	if IsActivePremium(records, time.Now()) {
		return model.PlanPremium, nil
	}
	return model.PlanFree, nil
}
