package audio

import "fmt"

// ErrInvalidFrame はMP3データ内に解釈できないフレームヘッダーが見つかったことを示します。
type ErrInvalidFrame struct {
	Index   int // エラーが発生したセグメントのインデックス
	Offset  int // セグメント内のバイトオフセット
	Details string
}

func (e *ErrInvalidFrame) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("MP3セグメント #%d のフレームが無効です (オフセット %d): %s", e.Index, e.Offset, e.Details)
	}
	return fmt.Sprintf("MP3フレーム解析エラー (オフセット %d): %s", e.Offset, e.Details)
}

// ErrNoAudioData は結合すべきMP3データがないか、セグメントから
// 有効なオーディオフレームが一つも抽出できなかったことを示します。
type ErrNoAudioData struct{}

func (e *ErrNoAudioData) Error() string {
	return "処理対象となる有効なオーディオデータ（MP3フレーム）がありません"
}
