package api

import (
	"fmt"
)

// ErrAPINetwork はAPI呼び出しにおける通信エラーやリトライ後の最終失敗を示すカスタムエラー型です。
type ErrAPINetwork struct {
	Endpoint   string
	WrappedErr error
}

func (e *ErrAPINetwork) Error() string {
	return fmt.Sprintf("API通信エラー (%s): %v", e.Endpoint, e.WrappedErr)
}

func (e *ErrAPINetwork) Unwrap() error {
	return e.WrappedErr
}

// ErrInvalidJSON はAPI応答が期待されるJSON形式でなかったことを示します。
type ErrInvalidJSON struct {
	Details    string
	WrappedErr error
}

func (e *ErrInvalidJSON) Error() string {
	return fmt.Sprintf("不正なJSONデータ: %s (詳細: %v)", e.Details, e.WrappedErr)
}

func (e *ErrInvalidJSON) Unwrap() error {
	return e.WrappedErr
}

// ErrMalformedResponse はJSONとしては正しいが、契約上必須のフィールド
// （success フラグや task_id など）が欠落した応答を受け取ったことを示します。
// 診断のため生の応答本文を保持します。
type ErrMalformedResponse struct {
	Endpoint string
	Details  string
	RawBody  string
}

func (e *ErrMalformedResponse) Error() string {
	// 応答ボディが長すぎる場合は切り詰める
	bodyDisplay := e.RawBody
	if len(bodyDisplay) > 100 {
		bodyDisplay = bodyDisplay[:100] + "..."
	}
	return fmt.Sprintf("API応答の契約違反 (%s): %s。応答本文: %s", e.Endpoint, e.Details, bodyDisplay)
}
