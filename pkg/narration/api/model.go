package api

// ----------------------------------------------------------------------
// データモデル (APIリクエスト/応答)
// ----------------------------------------------------------------------

// TaskRequest は音声合成リクエストの本体です。
// Pitch / Rate / Volume は中立値 0 を基準とした符号付き変化量（% / Hz）です。
type TaskRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Pitch  int    `json:"pitch"`
	Rate   int    `json:"rate"`
	Volume int    `json:"volume"`
}

// CreateResponse は非同期タスク作成APIの応答構造に対応する型です。
type CreateResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
	Message string `json:"message,omitempty"`
}

// TaskResult はタスク完了時にバックエンドが報告する成果物名を保持します。
// SubtitleName は字幕が生成されなかった場合は空のままです。
type TaskResult struct {
	AudioName    string `json:"audio_name"`
	SubtitleName string `json:"subtitle_name,omitempty"`
}

// TaskError はバックエンドが明示的に報告した失敗内容です。
type TaskError struct {
	Message string `json:"message"`
}

// StatusResponse はタスク状態確認APIの応答構造に対応する型です。
// Result は Status が StatusCompleted の場合のみ、
// Error は StatusFailed の場合のみ設定されることを期待します。
type StatusResponse struct {
	Success bool        `json:"success"`
	Status  TaskStatus  `json:"status"`
	Result  *TaskResult `json:"result,omitempty"`
	Error   *TaskError  `json:"error,omitempty"`
}

// SyncResponse は同期合成APIの応答構造に対応する型です。
type SyncResponse struct {
	Success bool        `json:"success"`
	Result  *TaskResult `json:"result,omitempty"`
	Error   *TaskError  `json:"error,omitempty"`
}
