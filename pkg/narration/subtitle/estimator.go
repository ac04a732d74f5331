package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ----------------------------------------------------------------------
// 読み上げ速度モデルによるキュー推定
// ----------------------------------------------------------------------
//
// バックエンドが字幕成果物を返さなかった行のためのフォールバックです。
// テキストのみから各キューの長さを推定するため、ここでの時間はあくまで
// 相対的な配分であり、最終的には Rescale で実測音声長に合わせて補正されます。

// Estimator はテキストから字幕キューを推定します。
type Estimator struct {
	WordsPerMinute int
}

// NewEstimator はデフォルトの読み上げ速度を持つ Estimator を生成します。
func NewEstimator() *Estimator {
	return &Estimator{WordsPerMinute: DefaultWordsPerMinute}
}

// Estimate はテキストを文・節・文字数の順で分割し、読み上げ速度モデルに
// 基づく推定時間を持つキュー列を返します。キューは時刻0から隙間なく並びます。
func (e *Estimator) Estimate(text string) []Cue {
	wpm := e.WordsPerMinute
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}

	chunks := chunkText(text)

	var cues []Cue
	var offset time.Duration

	for _, chunk := range chunks {
		d := estimateChunkDuration(chunk, wpm)

		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: offset,
			End:   offset + d,
			Text:  chunk,
		})
		offset += d
	}

	return cues
}

// Rescale は推定キュー列の総時間が actual に一致するよう、全キューの時刻を
// 単一の倍率で比例的に伸縮します。推定誤差を実測値へ一括補正するための操作で、
// キュー間の相対的な長さの比率は保たれます。
func Rescale(cues []Cue, actual time.Duration) []Cue {
	if len(cues) == 0 || actual <= 0 {
		return cues
	}

	total := cues[len(cues)-1].End
	if total <= 0 {
		return cues
	}

	factor := float64(actual) / float64(total)

	rescaled := make([]Cue, len(cues))
	for i, cue := range cues {
		rescaled[i] = Cue{
			Index: cue.Index,
			Start: time.Duration(float64(cue.Start) * factor),
			End:   time.Duration(float64(cue.End) * factor),
			Text:  cue.Text,
		}
	}

	// 丸め誤差で終端がずれないよう、最後のキューは実測値に揃える
	rescaled[len(rescaled)-1].End = actual

	return rescaled
}

// ----------------------------------------------------------------------
// 内部ヘルパー: テキスト分割
// ----------------------------------------------------------------------

// chunkText はテキストを文単位に分割し、長すぎる文をさらに節・文字数で分割します。
func chunkText(text string) []string {
	var chunks []string

	for _, sentence := range splitBySet(text, sentenceEndRunes) {
		if utf8.RuneCountInString(sentence) <= MaxCueCharLength {
			chunks = append(chunks, sentence)
			continue
		}

		// 節区切りでの分割を試みる
		for _, clause := range splitBySet(sentence, clauseRunes) {
			if utf8.RuneCountInString(clause) <= MaxCueCharLength {
				chunks = append(chunks, clause)
				continue
			}

			// それでも長い場合は単語を貪欲に詰める（単語の途中では決して切らない）
			chunks = append(chunks, packWords(clause)...)
		}
	}

	return chunks
}

// splitBySet は区切り文字セットでテキストを分割します。区切り文字は前側の断片に残します。
func splitBySet(text string, separators map[rune]bool) []string {
	var parts []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if separators[r] {
			part := strings.TrimSpace(current.String())
			if part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		parts = append(parts, rest)
	}

	return parts
}

// packWords は空白区切りの単語を MaxCueCharLength 以下になるよう貪欲に詰めます。
// 単一の単語が制限を超える場合でも、その単語は分割せず1チャンクとします。
func packWords(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)

		space := 0
		if currentLen > 0 {
			space = 1
		}

		if currentLen+space+wordLen > MaxCueCharLength && currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
			space = 0
		}

		if space == 1 {
			current.WriteString(" ")
		}
		current.WriteString(word)
		currentLen += space + wordLen
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// ----------------------------------------------------------------------
// 内部ヘルパー: 時間推定
// ----------------------------------------------------------------------

// estimateChunkDuration は1チャンクの読み上げ時間を推定します。
// 単語数 ÷ (WPM÷60) を基礎とし、句読点ごとの固定ポーズを加算、最低1秒を保証します。
func estimateChunkDuration(chunk string, wpm int) time.Duration {
	wordCount := len(strings.Fields(chunk))

	base := time.Duration(float64(wordCount) / (float64(wpm) / 60.0) * float64(time.Second))

	for _, r := range chunk {
		switch {
		case sentenceEndRunes[r]:
			base += SentencePause
		case clauseRunes[r]:
			base += ClausePause
		}
	}

	if base < MinCueDuration {
		base = MinCueDuration
	}

	return base
}
