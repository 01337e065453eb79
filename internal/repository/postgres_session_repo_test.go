package repository

import (
	"testing"
	"time"

	"github.com/deksden/siteapi/internal/model"
)

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresIdentityRepoはIdentityRepositoryインターフェースを満たすことを検証
func TestPostgresIdentityRepo_ImplementsInterface(t *testing.T) {
	var _ IdentityRepository = (*PostgresIdentityRepo)(nil)
}

// PostgresEntitlementRepoはEntitlementRepositoryインターフェースを満たすことを検証
func TestPostgresEntitlementRepo_ImplementsInterface(t *testing.T) {
	var _ EntitlementRepository = (*PostgresEntitlementRepo)(nil)
}

// Sessionモデルの有効期限フィールドが正しく構築されることを検証
func TestPostgresSessionRepo_SessionModel_Fields(t *testing.T) {
	now := time.Now()
	session := &model.Session{
		ID:        "0123456789abcdef0123456789abcdef",
		UserID:    "user-1",
		ExpiresAt: now.Add(30 * 24 * time.Hour),
		CreatedAt: now,
	}

	if !session.ExpiresAt.After(now) {
		t.Error("expires_at should be in the future")
	}
	if session.UserID != "user-1" {
		t.Errorf("session.UserID = %q, want %q", session.UserID, "user-1")
	}
}
