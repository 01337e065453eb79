package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
)

// PostgresBookmarkRepoはBookmarkRepositoryインターフェースを満たすことを検証
func TestPostgresBookmarkRepo_ImplementsInterface(t *testing.T) {
	var _ BookmarkRepository = (*PostgresBookmarkRepo)(nil)
}

// NewPostgresBookmarkRepoが正しく初期化されることを検証
func TestNewPostgresBookmarkRepo_Initializes(t *testing.T) {
	repo := NewPostgresBookmarkRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// 一意制約違反コードがErrDuplicateBookmarkへ変換されることを検証
func TestPostgresBookmarkRepo_UniqueViolationMapping(t *testing.T) {
	pqErr := &pq.Error{Code: uniqueViolation}

	var target *pq.Error
	if !errors.As(error(pqErr), &target) {
		t.Fatal("expected errors.As to match *pq.Error")
	}
	if target.Code != uniqueViolation {
		t.Errorf("code = %q, want %q", target.Code, uniqueViolation)
	}
}

// ErrDuplicateBookmarkがerrors.Isで判定できることを検証
func TestErrDuplicateBookmark_Sentinel(t *testing.T) {
	wrapped := errors.Join(ErrDuplicateBookmark)
	if !errors.Is(wrapped, ErrDuplicateBookmark) {
		t.Error("expected errors.Is to match ErrDuplicateBookmark")
	}
}
