package subtitle

import "fmt"

// ErrInvalidTimestamp はSRTのタイムスタンプ行が "HH:MM:SS,mmm --> HH:MM:SS,mmm"
// 形式として解釈できなかったことを示します。
type ErrInvalidTimestamp struct {
	LineNumber int
	Value      string
}

func (e *ErrInvalidTimestamp) Error() string {
	return fmt.Sprintf("SRTタイムスタンプが不正です (%d行目): %q", e.LineNumber, e.Value)
}
