// Package content はMarkdown記事ファイルの取り込みを提供する。
//
// コンテンツディレクトリは content/<locale>/articles/<slug>.md の構造を持ち、
// 各ファイルはYAMLフロントマターとMarkdown本文から成る。
package content

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deksden/siteapi/internal/model"
)

// Frontmatter は記事ファイル先頭のYAMLメタデータ。
type Frontmatter struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Lang           string   `yaml:"lang"`
	Slug           string   `yaml:"slug"`
	Date           string   `yaml:"date"`
	UpdatedAt      string   `yaml:"updatedAt"`
	Tags           []string `yaml:"tags"`
	Tier           string   `yaml:"tier"`
	TranslationKey string   `yaml:"translationKey"`
	Draft          bool     `yaml:"draft"`
}

var frontmatterDelimiter = []byte("---")

// SplitFrontmatter はファイル内容をフロントマター部とMarkdown本文に分割する。
// ファイルは "---" で始まり、次の "---" 行までがYAMLとなる。
func SplitFrontmatter(data []byte) (frontmatter, body []byte, err error) {
	trimmed := bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !bytes.HasPrefix(trimmed, frontmatterDelimiter) {
		return nil, nil, fmt.Errorf("フロントマターがありません")
	}

	rest := trimmed[len(frontmatterDelimiter):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, fmt.Errorf("フロントマターの終端がありません")
	}

	frontmatter = rest[:end]
	body = rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	return frontmatter, body, nil
}

// ParseFrontmatter はフロントマターを解析し、(lang, slug)の整合性を検証する。
// dirLocale はファイルが置かれているロケールディレクトリ、fileSlug は
// 拡張子を除いたファイル名。フロントマターのlangとslugは両者と一致しなければ
// ならない。tierが未指定の場合はfreeとして扱う。
func ParseFrontmatter(data []byte, dirLocale model.Locale, fileSlug string) (*Frontmatter, error) {
	var fm Frontmatter
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("フロントマターの解析に失敗しました: %w", err)
	}

	if fm.Title == "" {
		return nil, fmt.Errorf("titleは必須です")
	}
	if fm.Date == "" {
		return nil, fmt.Errorf("dateは必須です")
	}
	if _, err := time.Parse("2006-01-02", fm.Date); err != nil {
		return nil, fmt.Errorf("dateの形式が不正です: %w", err)
	}
	if fm.UpdatedAt != "" {
		if _, err := time.Parse("2006-01-02", fm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("updatedAtの形式が不正です: %w", err)
		}
	}

	if fm.Lang != string(dirLocale) {
		return nil, fmt.Errorf("langがディレクトリのロケールと一致しません: %s != %s", fm.Lang, dirLocale)
	}
	if !model.IsValidSlug(fm.Slug) {
		return nil, fmt.Errorf("slugの形式が不正です: %s", fm.Slug)
	}
	if fm.Slug != fileSlug {
		return nil, fmt.Errorf("slugがファイル名と一致しません: %s != %s", fm.Slug, fileSlug)
	}

	for _, t := range fm.Tags {
		if !model.IsValidSlug(t) {
			return nil, fmt.Errorf("タグの形式が不正です: %s", t)
		}
	}

	switch fm.Tier {
	case "":
		fm.Tier = string(model.TierFree)
	case string(model.TierFree), string(model.TierPremium):
	default:
		return nil, fmt.Errorf("tierの値が不正です: %s", fm.Tier)
	}

	return &fm, nil
}

// ToArticle はフロントマターをArticleモデルへ変換する。
// 本文に依存するフィールド(プレビュー、読了時間)は呼び出し側が設定する。
func (fm *Frontmatter) ToArticle() (*model.Article, error) {
	date, err := time.Parse("2006-01-02", fm.Date)
	if err != nil {
		return nil, fmt.Errorf("dateの解析に失敗しました: %w", err)
	}

	a := &model.Article{
		Lang:           model.Locale(fm.Lang),
		Slug:           fm.Slug,
		Title:          fm.Title,
		Description:    fm.Description,
		Date:           date,
		Tags:           fm.Tags,
		Tier:           model.Tier(fm.Tier),
		TranslationKey: fm.TranslationKey,
		Draft:          fm.Draft,
	}

	if fm.UpdatedAt != "" {
		updated, err := time.Parse("2006-01-02", fm.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("updatedAtの解析に失敗しました: %w", err)
		}
		a.UpdatedAt = &updated
	}

	return a, nil
}
