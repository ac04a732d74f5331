package subtitle

import (
	"strconv"
	"strings"
)

// ----------------------------------------------------------------------
// SRT 解析・整形
// ----------------------------------------------------------------------

const timestampSeparator = "-->"

// ParseSRT はSRT形式のテキストをキューのスライスに解析します。
// 行番号ブロックは読み飛ばし、タイムスタンプ行とそれに続くテキスト行を1キューとします。
// バックエンド産の字幕は番号が欠落していることがあるため、番号行は必須としません。
func ParseSRT(content string) ([]Cue, error) {
	var cues []Cue

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || !strings.Contains(line, timestampSeparator) {
			i++
			continue
		}

		// タイムスタンプ行の解析
		parts := strings.SplitN(line, timestampSeparator, 2)
		start, err := ParseTimestamp(parts[0])
		if err != nil {
			return nil, &ErrInvalidTimestamp{LineNumber: i + 1, Value: line}
		}
		end, err := ParseTimestamp(parts[1])
		if err != nil {
			return nil, &ErrInvalidTimestamp{LineNumber: i + 1, Value: line}
		}

		// 続くテキスト行を空行まで収集
		var textLines []string
		i++
		for i < len(lines) {
			text := strings.TrimSpace(lines[i])
			if text == "" {
				break
			}
			textLines = append(textLines, text)
			i++
		}

		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: start,
			End:   end,
			Text:  strings.Join(textLines, "\n"),
		})
	}

	return cues, nil
}

// FormatSRT はキューのスライスをSRT形式のテキストに整形します。
// Index フィールドは無視し、1から連番を振り直します。
func FormatSRT(cues []Cue) string {
	var b strings.Builder

	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatCue(i+1, cue))
	}

	return b.String()
}

// formatCue は1キュー分のSRTブロックを整形します。
func formatCue(number int, cue Cue) string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(number))
	b.WriteString("\n")
	b.WriteString(FormatTimestamp(cue.Start))
	b.WriteString(" ")
	b.WriteString(timestampSeparator)
	b.WriteString(" ")
	b.WriteString(FormatTimestamp(cue.End))
	b.WriteString("\n")
	b.WriteString(cue.Text)
	b.WriteString("\n")

	return b.String()
}
