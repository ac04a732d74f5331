package narration

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ----------------------------------------------------------------------
// 非同期パス向けの無害化
// ----------------------------------------------------------------------
//
// バックエンドは投入テキストの先頭およそ10単語から内部の一時保存名を導出します。
// その範囲に引用符・スラッシュ・コロン・括弧・ダッシュ類などが含まれると
// 保存名が壊れ、バックエンド側の後処理が失敗します。この不具合は非同期パス
// 固有のため、無害化は非同期タスク作成の直前にのみ適用します。
// 元のテキストはファイルやログの出力用にそのまま保持されます。

// removedRunes は先頭単語から除去する文字の一覧です（欧文・CJK両方）。
var removedRunes = map[rune]bool{
	'\'': true, '"': true, '“': true, '”': true, '‘': true, '’': true,
	':': true, ';': true, '(': true, ')': true, '[': true, ']': true,
	'{': true, '}': true, '<': true, '>': true,
	'!': true, '?': true, '.': true, ',': true,
	'—': true, '–': true, '…': true, '·': true,
	'：': true, '；': true, '（': true, '）': true,
	'【': true, '】': true, '《': true, '》': true,
	'「': true, '」': true, '『': true, '』': true,
	'、': true, '。': true, '！': true, '？': true, '，': true,
}

// SanitizeForAsync は非同期バックエンドへ安全に投入できるテキストを返します。
// 先頭の sanitizePrefixWordCount 単語のみを処理し、残りの単語には触れません。
// 除去の結果空になった単語は、代替トークンを入れずに脱落させます。
func SanitizeForAsync(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	prefixCount := sanitizePrefixWordCount
	if len(words) < prefixCount {
		prefixCount = len(words)
	}

	var result []string
	for i := 0; i < prefixCount; i++ {
		for _, cleaned := range strings.Fields(sanitizeWord(words[i])) {
			result = append(result, cleaned)
		}
	}
	result = append(result, words[prefixCount:]...)

	sanitized := strings.Join(result, " ")
	if sanitized == "" {
		// 非空の入力に対して空を返さない
		return FallbackText
	}

	return sanitized
}

// sanitizeWord は1単語から問題文字を除去・置換します。
// 置換によって空白が生じ得るため、呼び出し元で再分割します。
func sanitizeWord(word string) string {
	var b strings.Builder

	for _, r := range word {
		switch {
		case r == '&':
			b.WriteString(" and ")
		case r == '/' || r == '\\':
			b.WriteString(" ")
		case removedRunes[r]:
			// 除去
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// ----------------------------------------------------------------------
// ASCII専用音声向けの正規化
// ----------------------------------------------------------------------

// NormalizeASCII は混在スクリプトのテキストをASCII専用音声向けに正規化します。
// Unicode互換分解 (NFKD) の後、7ビットASCII範囲外の文字を全て取り除き、
// 空白を圧縮します。結果が空になった場合は、空テキストを送らないよう
// 固定の代替テキストを返します。
func NormalizeASCII(text string) string {
	decomposed := norm.NFKD.String(text)

	var b strings.Builder
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}

	normalized := strings.Join(strings.Fields(b.String()), " ")
	if normalized == "" {
		return FallbackText
	}

	return normalized
}
