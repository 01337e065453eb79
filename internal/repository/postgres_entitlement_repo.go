package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deksden/siteapi/internal/model"
)

// PostgresEntitlementRepo はPostgreSQLを使用した購読権利リポジトリ。
type PostgresEntitlementRepo struct {
	db *sql.DB
}

// NewPostgresEntitlementRepo はPostgresEntitlementRepoを生成する。
func NewPostgresEntitlementRepo(db *sql.DB) *PostgresEntitlementRepo {
	return &PostgresEntitlementRepo{db: db}
}

// ListByUserAndKind は指定ユーザーの指定kindのレコードを全件返す。
// 期限切れのレコードも含めて返し、有効性の判定は呼び出し側に委ねる。
func (r *PostgresEntitlementRepo) ListByUserAndKind(ctx context.Context, userID, kind string) ([]model.Entitlement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, ends_at, created_at
		 FROM entitlements WHERE user_id = $1 AND kind = $2`,
		userID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("購読権利の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var records []model.Entitlement
	for rows.Next() {
		var e model.Entitlement
		var endsAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &endsAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("購読権利行の読み取りに失敗しました: %w", err)
		}
		if endsAt.Valid {
			e.EndsAt = &endsAt.Time
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("購読権利の走査に失敗しました: %w", err)
	}

	return records, nil
}

// DeleteByUserID は指定ユーザーの全レコードを削除する。
func (r *PostgresEntitlementRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM entitlements WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの購読権利の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ EntitlementRepository = (*PostgresEntitlementRepo)(nil)
