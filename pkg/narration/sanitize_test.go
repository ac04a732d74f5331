package narration

import (
	"strings"
	"testing"
)

func TestSanitizeForAsync(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "引用符とコロンの除去",
			input: `"The Story": begins here today`,
			want:  "The Story begins here today",
		},
		{
			name:  "アンパサンドの置換",
			input: "Tom & Jerry run fast",
			want:  "Tom and Jerry run fast",
		},
		{
			name:  "スラッシュは空白に置換され単語が分かれる",
			input: "before/after the event",
			want:  "before after the event",
		},
		{
			name:  "CJK括弧と句読点の除去",
			input: "【第一章】 物語の、始まり。",
			want:  "第一章 物語の始まり",
		},
		{
			name:  "除去で空になった単語は脱落する",
			input: `"..." next word`,
			want:  "next word",
		},
		{
			name:  "問題文字のないテキストは不変",
			input: "plain words only here",
			want:  "plain words only here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeForAsync(tt.input); got != tt.want {
				t.Errorf("SanitizeForAsync(%q) = %q, 期待 %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeForAsyncOnlyTouchesPrefix(t *testing.T) {
	// 先頭10単語を超えた位置の問題文字はそのまま残る
	words := make([]string, 0, 12)
	for i := 0; i < 10; i++ {
		words = append(words, "word")
	}
	words = append(words, `"quoted"`, "tail:")

	got := SanitizeForAsync(strings.Join(words, " "))

	if !strings.Contains(got, `"quoted"`) {
		t.Errorf("11単語目が変更されています: %q", got)
	}
	if !strings.Contains(got, "tail:") {
		t.Errorf("12単語目が変更されています: %q", got)
	}
}

func TestSanitizeForAsyncNeverReturnsEmpty(t *testing.T) {
	// 全単語が除去対象文字のみの場合でも空文字列は返さない
	got := SanitizeForAsync(`"..." 「」 ！？`)
	if got != FallbackText {
		t.Errorf("期待 %q 実際 %q", FallbackText, got)
	}

	if got := SanitizeForAsync(""); got != "" {
		t.Errorf("空入力は空のまま返すこと: %q", got)
	}
}

func TestNormalizeASCII(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ダイアクリティカルマークの分解", input: "café naïve résumé", want: "cafe naive resume"},
		{name: "CJK文字の除去", input: "hello 世界 world", want: "hello world"},
		{name: "ASCIIのみは不変", input: "already plain text", want: "already plain text"},
		{name: "全てASCII範囲外なら代替テキスト", input: "こんにちは世界", want: FallbackText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeASCII(tt.input); got != tt.want {
				t.Errorf("NormalizeASCII(%q) = %q, 期待 %q", tt.input, got, tt.want)
			}
		})
	}
}
