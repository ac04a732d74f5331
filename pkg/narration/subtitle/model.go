package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ----------------------------------------------------------------------
// データモデル (字幕キュー)
// ----------------------------------------------------------------------

// Cue は字幕の1エントリ（開始時刻・終了時刻・テキスト）を表します。
// 行単位の字幕ファイルでは、時刻はその行自身の原点 (0) からの相対値です。
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// ----------------------------------------------------------------------
// タイムスタンプの整形と解析 (SRT標準: HH:MM:SS,mmm)
// ----------------------------------------------------------------------

// FormatTimestamp は time.Duration をSRT標準のタイムスタンプ文字列に整形します。
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp はSRT標準のタイムスタンプ文字列を time.Duration に解析します。
func ParseTimestamp(value string) (time.Duration, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ",", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("ミリ秒区切りがありません: %q", value)
	}

	hms := strings.Split(parts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("時:分:秒の形式ではありません: %q", value)
	}

	h, err := strconv.Atoi(hms[0])
	if err != nil {
		return 0, fmt.Errorf("時の解析失敗: %q", value)
	}
	m, err := strconv.Atoi(hms[1])
	if err != nil {
		return 0, fmt.Errorf("分の解析失敗: %q", value)
	}
	s, err := strconv.Atoi(hms[2])
	if err != nil {
		return 0, fmt.Errorf("秒の解析失敗: %q", value)
	}
	ms, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("ミリ秒の解析失敗: %q", value)
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
