package narration

import (
	"strings"
	"unicode/utf8"
)

// ----------------------------------------------------------------------
// データモデル (スクリプト)
// ----------------------------------------------------------------------

// Line はナレーションスクリプトの1行を表します。
// Index は空行を除いた1始まりの位置で、実行をまたいで安定しており、
// 成果物の命名と再開判定の唯一のキーになります。
type Line struct {
	Index int
	Text  string
}

// ----------------------------------------------------------------------
// スクリプト解析
// ----------------------------------------------------------------------

// ParseScript はスクリプト本文を行単位に分解します。
// 空行はインデックスを割り当てずに読み飛ばすため、インデックス列は
// 非空行に対して密です。同じスクリプトに対しては常に同じ
// 行→インデックス対応を再現します（再開の前提条件）。
func ParseScript(content string) []Line {
	var lines []Line

	for _, raw := range strings.Split(content, "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}

		lines = append(lines, Line{
			Index: len(lines) + 1,
			Text:  text,
		})
	}

	return lines
}

// previewText はエラー報告用にテキストの先頭部分を切り出します。
func previewText(text string) string {
	if utf8.RuneCountInString(text) <= linePreviewRuneLimit {
		return text
	}

	runes := []rune(text)
	return string(runes[:linePreviewRuneLimit]) + "..."
}
