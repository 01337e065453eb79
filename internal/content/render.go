package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/deksden/siteapi/internal/security"
)

// moreMarker はプレビューと続きの境界を示すMarkdown内のマーカー。
const moreMarker = "<!--more-->"

// wordsPerMinute は読了時間の計算に使う1分あたりの語数。
const wordsPerMinute = 200

// Renderer はMarkdown本文をサニタイズ済みHTMLへ変換する。
type Renderer struct {
	md        goldmark.Markdown
	sanitizer security.ContentSanitizerService
}

// NewRenderer はRendererを生成する。
// GFM拡張(表、取り消し線、自動リンク)を有効にする。
// 生HTMLはgoldmarkを素通しさせ、最終段のサニタイザで除去する。
func NewRenderer(sanitizer security.ContentSanitizerService) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, sanitizer: sanitizer}
}

// Rendered はMarkdown本文の変換結果。
type Rendered struct {
	BodyHTML           string
	PreviewHTML        string
	ReadingTimeMinutes int
}

// Render はMarkdown本文を全文HTML・プレビューHTML・読了時間へ変換する。
//
// プレビューは本文中の <!--more--> マーカーより前の部分。マーカーがない
// 場合は最初の空行区切りブロックをプレビューとする。
// 読了時間は語数/200の切り上げで、最低1分。
func (r *Renderer) Render(markdown []byte) (*Rendered, error) {
	bodyHTML, err := r.toHTML(markdown)
	if err != nil {
		return nil, err
	}

	previewHTML, err := r.toHTML(previewSource(markdown))
	if err != nil {
		return nil, err
	}

	return &Rendered{
		BodyHTML:           bodyHTML,
		PreviewHTML:        previewHTML,
		ReadingTimeMinutes: readingTime(markdown),
	}, nil
}

func (r *Renderer) toHTML(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("Markdownの変換に失敗しました: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}

// previewSource はプレビュー対象のMarkdown部分を切り出す。
func previewSource(markdown []byte) []byte {
	if i := bytes.Index(markdown, []byte(moreMarker)); i >= 0 {
		return markdown[:i]
	}

	// マーカーがない場合は最初の空行までをプレビューとする。
	trimmed := bytes.TrimLeft(markdown, "\n")
	if i := bytes.Index(trimmed, []byte("\n\n")); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// readingTime は語数ベースの読了時間(分)を返す。最低1分。
func readingTime(markdown []byte) int {
	words := len(strings.Fields(string(markdown)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
