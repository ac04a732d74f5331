package subtitle

import "time"

// ----------------------------------------------------------------------
// 推定器 (Estimator) 定数
// ----------------------------------------------------------------------

const (
	// DefaultWordsPerMinute はバックエンドの平均的な読み上げ速度の目安です。
	DefaultWordsPerMinute = 150

	// 文末句読点 (。！？.!?) 1つあたりに加算するポーズ
	SentencePause = 500 * time.Millisecond

	// 節区切り句読点 (、，,;：:) 1つあたりに加算するポーズ
	ClausePause = 200 * time.Millisecond

	// 1キューの最小表示時間
	MinCueDuration = 1 * time.Second

	// 1キューに収める最大文字数（これを超える文は節・単語単位で分割される）
	MaxCueCharLength = 80
)

// ----------------------------------------------------------------------
// 句読点セット
// ----------------------------------------------------------------------

// sentenceEndRunes は文の終わりと見なす句読点です（欧文・CJK両方）。
var sentenceEndRunes = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
	'…': true,
}

// clauseRunes は節の区切りと見なす句読点です（欧文・CJK両方）。
var clauseRunes = map[rune]bool{
	',': true, ';': true, ':': true,
	'、': true, '，': true, '；': true, '：': true,
}
