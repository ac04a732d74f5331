package subtitle

import (
	"strings"
	"time"
	"unicode"
)

// ----------------------------------------------------------------------
// 字幕マージ
// ----------------------------------------------------------------------

// Merge は行ごとのキュー列を1本の字幕に結合します。
// entries[i] が nil の行はキューを出力せず、時間オフセットのみ進めます。
//
// 重要な不変条件: グローバルな時刻は durations（音声結合時の実測値）のみから
// 導出します。各行の字幕が自称する総時間は使いません。バックエンドが報告する
// 字幕タイミングと実際の音声長は乖離することがあり、実測値が常に正です。
func Merge(entries [][]Cue, durations []time.Duration, gap time.Duration) string {
	var merged []Cue
	var timeOffset time.Duration

	for i, cues := range entries {
		for _, cue := range cues {
			text := StripPunctuation(cue.Text)
			if text == "" {
				// 句読点のみのキューは出力しない
				continue
			}

			start, end := cue.Start, cue.End
			if i < len(durations) {
				// 行の実測音声長を超えるキューは実測値で打ち切る
				if start > durations[i] {
					start = durations[i]
				}
				if end > durations[i] {
					end = durations[i]
				}
			}

			merged = append(merged, Cue{
				Start: timeOffset + start,
				End:   timeOffset + end,
				Text:  text,
			})
		}

		if i < len(durations) {
			timeOffset += durations[i] + gap
		}
	}

	return FormatSRT(merged)
}

// ----------------------------------------------------------------------
// テキスト整形
// ----------------------------------------------------------------------

// StripPunctuation は字幕テキストから欧文・CJK両方の句読点を取り除きます。
// 単語間の空白はそのまま残します。
func StripPunctuation(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)

	return strings.TrimSpace(cleaned)
}
