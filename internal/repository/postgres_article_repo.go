package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/deksden/siteapi/internal/model"
)

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

const articleColumns = `id, lang, slug, title, description, date, updated_at, tags, tier,
	        translation_key, draft, reading_time_minutes, preview_html, synced_at, created_at`

// scanArticle は1行分の記事カラムをmodel.Articleに読み取る。
func scanArticle(row interface{ Scan(dest ...any) error }) (*model.Article, error) {
	article := &model.Article{}
	var lang, tier string
	var updatedAt sql.NullTime
	var translationKey sql.NullString
	var tags pq.StringArray

	err := row.Scan(
		&article.ID, &lang, &article.Slug, &article.Title, &article.Description,
		&article.Date, &updatedAt, &tags, &tier,
		&translationKey, &article.Draft, &article.ReadingTimeMinutes,
		&article.PreviewHTML, &article.SyncedAt, &article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	article.Lang = model.Locale(lang)
	article.Tier = model.Tier(tier)
	article.Tags = []string(tags)
	article.TranslationKey = translationKey.String
	if updatedAt.Valid {
		article.UpdatedAt = &updatedAt.Time
	}

	return article, nil
}

// FindByLangAndSlug は(lang, slug)で記事を取得する。見つからない場合はnilを返す。
// draft記事も取得対象に含める。
func (r *PostgresArticleRepo) FindByLangAndSlug(ctx context.Context, lang model.Locale, slug string) (*model.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE lang = $1 AND slug = $2`,
		string(lang), slug,
	)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}

	return article, nil
}

// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`,
		id,
	)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("IDによる記事の取得に失敗しました: %w", err)
	}

	return article, nil
}

// FindCanonicalByTranslationKey は指定ロケールでtranslation_keyを共有する
// 公開済み記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindCanonicalByTranslationKey(ctx context.Context, lang model.Locale, key string) (*model.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE lang = $1 AND translation_key = $2 AND draft = false`,
		string(lang), key,
	)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("translation_keyによる記事の検索に失敗しました: %w", err)
	}

	return article, nil
}

// ListPublished は公開済み記事の一覧をdate降順で返す。
// 同一日付は登録順（created_at、次にid）で安定させる。
func (r *PostgresArticleRepo) ListPublished(ctx context.Context, lang model.Locale) ([]model.ArticleCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lang, slug, title, description, date, updated_at, tags, tier,
		        translation_key, reading_time_minutes
		 FROM articles
		 WHERE lang = $1 AND draft = false
		 ORDER BY date DESC, created_at ASC, id ASC`,
		string(lang),
	)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var cards []model.ArticleCard
	for rows.Next() {
		var card model.ArticleCard
		var cardLang, tier string
		var updatedAt sql.NullTime
		var translationKey sql.NullString
		var tags pq.StringArray

		if err := rows.Scan(
			&card.ID, &cardLang, &card.Slug, &card.Title, &card.Description,
			&card.Date, &updatedAt, &tags, &tier,
			&translationKey, &card.ReadingTimeMinutes,
		); err != nil {
			return nil, fmt.Errorf("記事行の読み取りに失敗しました: %w", err)
		}

		card.Lang = model.Locale(cardLang)
		card.Tier = model.Tier(tier)
		card.Tags = []string(tags)
		card.TranslationKey = translationKey.String
		if updatedAt.Valid {
			card.UpdatedAt = &updatedAt.Time
		}

		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の走査に失敗しました: %w", err)
	}

	return cards, nil
}

// FindBodyByArticleID はゲート対象の全文本文を取得する。
// 行が存在しない場合はnilを返す。
func (r *PostgresArticleRepo) FindBodyByArticleID(ctx context.Context, articleID string) (*model.ArticleBody, error) {
	body := &model.ArticleBody{}

	err := r.db.QueryRowContext(ctx,
		`SELECT article_id, body_html, updated_at FROM article_bodies WHERE article_id = $1`,
		articleID,
	).Scan(&body.ArticleID, &body.BodyHTML, &body.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記事本文の取得に失敗しました: %w", err)
	}

	return body, nil
}

// Upsert は記事メタデータを(lang, slug)キーでUPSERTし、確定したIDを返す。
// 既存行はIDを維持したままメタデータのみ上書きする。コンテンツ同期から呼ばれる。
func (r *PostgresArticleRepo) Upsert(ctx context.Context, article *model.Article) (string, error) {
	id := article.ID
	if id == "" {
		id = uuid.New().String()
	}

	var updatedAt any
	if article.UpdatedAt != nil {
		updatedAt = *article.UpdatedAt
	}

	var translationKey any
	if article.TranslationKey != "" {
		translationKey = article.TranslationKey
	}

	var storedID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO articles (id, lang, slug, title, description, date, updated_at, tags, tier,
		                       translation_key, draft, reading_time_minutes, preview_html, synced_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (lang, slug) DO UPDATE SET
		     title = EXCLUDED.title,
		     description = EXCLUDED.description,
		     date = EXCLUDED.date,
		     updated_at = EXCLUDED.updated_at,
		     tags = EXCLUDED.tags,
		     tier = EXCLUDED.tier,
		     translation_key = EXCLUDED.translation_key,
		     draft = EXCLUDED.draft,
		     reading_time_minutes = EXCLUDED.reading_time_minutes,
		     preview_html = EXCLUDED.preview_html,
		     synced_at = EXCLUDED.synced_at
		 RETURNING id`,
		id, string(article.Lang), article.Slug, article.Title, article.Description,
		article.Date, updatedAt, pq.Array(article.Tags), string(article.Tier),
		translationKey, article.Draft, article.ReadingTimeMinutes,
		article.PreviewHTML, article.SyncedAt, time.Now().UTC(),
	).Scan(&storedID)
	if err != nil {
		return "", fmt.Errorf("記事のUPSERTに失敗しました: %w", err)
	}

	return storedID, nil
}

// UpsertBody は全文本文をUPSERTする。
func (r *PostgresArticleRepo) UpsertBody(ctx context.Context, articleID, bodyHTML string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO article_bodies (article_id, body_html, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (article_id) DO UPDATE SET
		     body_html = EXCLUDED.body_html,
		     updated_at = EXCLUDED.updated_at`,
		articleID, bodyHTML,
	)
	if err != nil {
		return fmt.Errorf("記事本文のUPSERTに失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
