// Package tag は記事タグの問い合わせ解析と集計を提供する。
package tag

import (
	"sort"
	"strings"

	"github.com/deksden/siteapi/internal/model"
)

// Count はタグとそのタグを持つ公開記事数の組。
type Count struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ParseQuery はカンマ区切りのタグ指定文字列を正規化済みタグ集合へ解析する。
// 各要素は前後の空白を除去した上でタグ形式(小文字英数字とハイフン)を検証し、
// 形式に合わない要素は黙って除外する。重複は除去し、結果は昇順でソートされる。
// 有効なタグがひとつもない場合は空スライスを返す。
func ParseQuery(query string) []string {
	seen := make(map[string]struct{})
	var tags []string

	for _, part := range strings.Split(query, ",") {
		t := strings.TrimSpace(part)
		if !model.IsValidSlug(t) {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}

	sort.Strings(tags)
	return tags
}

// Filter は指定タグを全て含む記事のみを返す(AND条件)。
// tagsが空の場合は入力をそのまま返す。
// 入力順序は保持される。
func Filter(cards []model.ArticleCard, tags []string) []model.ArticleCard {
	if len(tags) == 0 {
		return cards
	}

	var filtered []model.ArticleCard
	for _, c := range cards {
		if hasAllTags(c.Tags, tags) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func hasAllTags(cardTags, wanted []string) bool {
	set := make(map[string]struct{}, len(cardTags))
	for _, t := range cardTags {
		set[t] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

// Counts は記事群からタグごとの件数を集計する。
// 同一記事内の重複タグは1件として数える。
// 結果はタグ名の昇順(バイト順)でソートされる。
func Counts(cards []model.ArticleCard) []Count {
	byTag := make(map[string]int)
	for _, c := range cards {
		seen := make(map[string]struct{}, len(c.Tags))
		for _, t := range c.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			byTag[t]++
		}
	}

	counts := make([]Count, 0, len(byTag))
	for t, n := range byTag {
		counts = append(counts, Count{Tag: t, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Tag < counts[j].Tag
	})

	return counts
}
