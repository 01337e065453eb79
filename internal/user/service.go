// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/repository"
)

// Account はアカウント画面用のユーザー情報。
type Account struct {
	User       *model.User
	Plan       model.Plan
	Identities []model.Identity
}

// PlanResolver は現在の購読プランを解決するインターフェース。
type PlanResolver interface {
	ResolvePlan(ctx context.Context, userID string) (model.Plan, error)
}

// Service はユーザー管理のサービス層。
// アカウント情報の取得と退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo        repository.UserRepository
	identRepo       repository.IdentityRepository
	sessionRepo     repository.SessionRepository
	bookmarkRepo    repository.BookmarkRepository
	entitlementRepo repository.EntitlementRepository
	planResolver    PlanResolver
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	bookmarkRepo repository.BookmarkRepository,
	entitlementRepo repository.EntitlementRepository,
	planResolver PlanResolver,
) *Service {
	return &Service{
		userRepo:        userRepo,
		identRepo:       identRepo,
		sessionRepo:     sessionRepo,
		bookmarkRepo:    bookmarkRepo,
		entitlementRepo: entitlementRepo,
		planResolver:    planResolver,
	}
}

// GetAccount はアカウント画面用のユーザー情報を取得する。
// ユーザー本体、現在のプラン、連携済みIdPの一覧を含む。
func (s *Service) GetAccount(ctx context.Context, userID string) (*Account, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}

	plan, err := s.planResolver.ResolvePlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プランの解決に失敗しました: %w", err)
	}

	identities, err := s.identRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("identity一覧の取得に失敗しました: %w", err)
	}

	return &Account{
		User:       u,
		Plan:       plan,
		Identities: identities,
	}, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: bookmarks → entitlements → sessions → user（+ CASCADE: identities）
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. ブックマークを削除
	if err := s.bookmarkRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("ブックマークの削除に失敗しました: %w", err)
	}

	// 2. 購読権利を削除
	if err := s.entitlementRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("購読権利の削除に失敗しました: %w", err)
	}

	// 3. セッションを削除
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	// 4. ユーザーを削除（identitiesはCASCADE削除）
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
