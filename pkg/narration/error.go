package narration

import (
	"fmt"
	"time"
)

// ----------------------------------------------------------------------
// バックエンド起因のエラー (synthesizer.go で利用)
// ----------------------------------------------------------------------

// ErrBackend はバックエンドがタスクの失敗を明示的に報告したことを示します。
// 決定論的な拒否（クォータ超過など）の可能性があるため、自動リトライはしません。
type ErrBackend struct {
	TaskID  string
	Message string
}

func (e *ErrBackend) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("バックエンドがタスク %s の失敗を報告しました: %s", e.TaskID, e.Message)
	}
	return fmt.Sprintf("バックエンドが合成の失敗を報告しました: %s", e.Message)
}

// ErrPollTimeout は非同期タスクが締め切りまでに完了も失敗もしなかったことを示します。
// パイプライン全体の再実行（再開機能により安価）が定義された回復手段です。
type ErrPollTimeout struct {
	TaskID string
	Waited time.Duration
}

func (e *ErrPollTimeout) Error() string {
	return fmt.Sprintf("タスク %s が %s 以内に完了しませんでした", e.TaskID, e.Waited)
}

// ----------------------------------------------------------------------
// 行処理エラー (line.go / pipeline.go で利用)
// ----------------------------------------------------------------------

// ErrLineSynthesis は特定の行の合成失敗を示します。
// 行の欠落は結合順序を崩すため、この失敗はバッチ全体にとって致命的です。
// 診断のため行インデックスとテキストの先頭部分を保持します。
type ErrLineSynthesis struct {
	Index       int
	TextPreview string
	WrappedErr  error
}

func (e *ErrLineSynthesis) Error() string {
	return fmt.Sprintf("行 %d の合成に失敗しました (%q): %v", e.Index, e.TextPreview, e.WrappedErr)
}

func (e *ErrLineSynthesis) Unwrap() error {
	return e.WrappedErr
}

// ErrEmptyScript はスクリプトから有効な行を1つも抽出できなかったことを示します。
type ErrEmptyScript struct{}

func (e *ErrEmptyScript) Error() string {
	return "スクリプトから有効なナレーション行を抽出できませんでした"
}

// ErrUnknownVoice は音声プロファイル名がレジストリに存在しないことを示します。
type ErrUnknownVoice struct {
	Name string
}

func (e *ErrUnknownVoice) Error() string {
	return fmt.Sprintf("音声プロファイル %q が見つかりません", e.Name)
}
