package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deksden/siteapi/internal/model"
	"github.com/deksden/siteapi/internal/repository"
)

// Syncer はコンテンツディレクトリのMarkdown記事をデータベースへ同期する。
type Syncer struct {
	articleRepo repository.ArticleRepository
	renderer    *Renderer
	contentDir  string
	logger      *slog.Logger
}

// NewSyncer はSyncerを生成する。
func NewSyncer(articleRepo repository.ArticleRepository, renderer *Renderer, contentDir string, logger *slog.Logger) *Syncer {
	return &Syncer{
		articleRepo: articleRepo,
		renderer:    renderer,
		contentDir:  contentDir,
		logger:      logger,
	}
}

// Result は同期処理の集計結果。
type Result struct {
	Synced  int
	Skipped int
	Failed  int
}

// Sync は全ロケールの記事ファイルを走査してUPSERTする。
// ファイル単位の失敗は記録して処理を継続し、最後に集計を返す。
// ディレクトリ自体が読めない場合のみエラーを返す。
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	result := &Result{}

	for _, locale := range model.SiteLocales {
		dir := filepath.Join(s.contentDir, string(locale), "articles")
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn("ロケールの記事ディレクトリが存在しません",
					slog.String("dir", dir))
				continue
			}
			return nil, fmt.Errorf("記事ディレクトリの読み取りに失敗しました: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				result.Skipped++
				continue
			}
			// アンダースコア始まりのファイルは下書き以前の作業ファイルとして無視する。
			if strings.HasPrefix(entry.Name(), "_") {
				result.Skipped++
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if err := s.syncFile(ctx, locale, path, entry.Name()); err != nil {
				s.logger.Error("記事ファイルの同期に失敗しました",
					slog.String("path", path),
					slog.String("error", err.Error()))
				result.Failed++
				continue
			}
			result.Synced++
		}
	}

	s.logger.Info("コンテンツ同期が完了しました",
		slog.Int("synced", result.Synced),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed))

	return result, nil
}

// syncFile は1ファイルを解析・変換してDBへUPSERTする。
func (s *Syncer) syncFile(ctx context.Context, locale model.Locale, path, filename string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ファイルの読み取りに失敗しました: %w", err)
	}

	fmRaw, body, err := SplitFrontmatter(data)
	if err != nil {
		return err
	}

	fileSlug := strings.TrimSuffix(filename, ".md")
	fm, err := ParseFrontmatter(fmRaw, locale, fileSlug)
	if err != nil {
		return err
	}

	a, err := fm.ToArticle()
	if err != nil {
		return err
	}

	rendered, err := s.renderer.Render(body)
	if err != nil {
		return err
	}

	a.PreviewHTML = rendered.PreviewHTML
	a.ReadingTimeMinutes = rendered.ReadingTimeMinutes
	a.SyncedAt = time.Now().UTC()

	id, err := s.articleRepo.Upsert(ctx, a)
	if err != nil {
		return fmt.Errorf("記事のUPSERTに失敗しました: %w", err)
	}

	if err := s.articleRepo.UpsertBody(ctx, id, rendered.BodyHTML); err != nil {
		return fmt.Errorf("本文のUPSERTに失敗しました: %w", err)
	}

	s.logger.Debug("記事を同期しました",
		slog.String("lang", string(locale)),
		slog.String("slug", a.Slug),
		slog.String("article_id", id))

	return nil
}
