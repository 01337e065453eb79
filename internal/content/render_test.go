package content

import (
	"strings"
	"testing"

	"github.com/deksden/siteapi/internal/security"
)

func newTestRenderer() *Renderer {
	return NewRenderer(security.NewContentSanitizer())
}

// 基本的なMarkdown変換を検証
func TestRender_BasicMarkdown(t *testing.T) {
	r := newTestRenderer()

	got, err := r.Render([]byte("## 見出し\n\n段落 **強調**\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got.BodyHTML, "<h2>見出し</h2>") {
		t.Errorf("BodyHTML = %q, expected h2", got.BodyHTML)
	}
	if !strings.Contains(got.BodyHTML, "<strong>強調</strong>") {
		t.Errorf("BodyHTML = %q, expected strong", got.BodyHTML)
	}
}

// GFMの表が変換されることを検証
func TestRender_GFMTable(t *testing.T) {
	r := newTestRenderer()

	markdown := "| 列A | 列B |\n| --- | --- |\n| 1 | 2 |\n"
	got, err := r.Render([]byte(markdown))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got.BodyHTML, "<table>") {
		t.Errorf("BodyHTML = %q, expected table", got.BodyHTML)
	}
}

// スクリプトが最終HTMLから除去されることを検証
func TestRender_SanitizesRawHTML(t *testing.T) {
	r := newTestRenderer()

	got, err := r.Render([]byte("段落\n\n<script>alert(1)</script>\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(got.BodyHTML, "<script") {
		t.Errorf("BodyHTML = %q, script must be removed", got.BodyHTML)
	}
}

// moreマーカーによるプレビュー分割を検証
func TestRender_PreviewByMarker(t *testing.T) {
	r := newTestRenderer()

	markdown := "導入部の段落\n\n<!--more-->\n\n続きの本文\n"
	got, err := r.Render([]byte(markdown))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got.PreviewHTML, "導入部の段落") {
		t.Errorf("PreviewHTML = %q, expected intro", got.PreviewHTML)
	}
	if strings.Contains(got.PreviewHTML, "続きの本文") {
		t.Errorf("PreviewHTML = %q, must not contain the rest", got.PreviewHTML)
	}
	if !strings.Contains(got.BodyHTML, "続きの本文") {
		t.Errorf("BodyHTML = %q, expected full body", got.BodyHTML)
	}
}

// マーカーなしの場合に最初のブロックがプレビューになることを検証
func TestRender_PreviewFallbackFirstBlock(t *testing.T) {
	r := newTestRenderer()

	markdown := "最初の段落\n\n二番目の段落\n"
	got, err := r.Render([]byte(markdown))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got.PreviewHTML, "最初の段落") {
		t.Errorf("PreviewHTML = %q", got.PreviewHTML)
	}
	if strings.Contains(got.PreviewHTML, "二番目の段落") {
		t.Errorf("PreviewHTML = %q, must contain only the first block", got.PreviewHTML)
	}
}

// 読了時間の計算を検証
func TestRender_ReadingTime(t *testing.T) {
	r := newTestRenderer()

	// 短文は最低1分
	short, err := r.Render([]byte("короткий текст"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if short.ReadingTimeMinutes != 1 {
		t.Errorf("ReadingTimeMinutes = %d, want 1", short.ReadingTimeMinutes)
	}

	// 250語は2分(切り上げ)
	long, err := r.Render([]byte(strings.Repeat("слово ", 250)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if long.ReadingTimeMinutes != 2 {
		t.Errorf("ReadingTimeMinutes = %d, want 2", long.ReadingTimeMinutes)
	}
}
