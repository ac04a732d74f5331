package api

// ----------------------------------------------------------------------
// エンドポイント定数
// ----------------------------------------------------------------------

const (
	// 非同期タスクの作成・状態確認・成果物ダウンロード用エンドポイント
	EndpointTaskCreate       = "/api/v1/task/create"
	EndpointTaskStatus       = "/api/v1/task/status"
	EndpointArtifactDownload = "/api/v1/artifact/download"

	// 短いテキスト向けの同期合成エンドポイント（create + status + download を一括で行う）
	EndpointSynthesizeSync = "/api/v1/synthesize"
)

// ----------------------------------------------------------------------
// タスク状態定数
// ----------------------------------------------------------------------

// TaskStatus はバックエンドが報告するタスクの状態を表します。
// 応答JSONの生文字列は境界（client.go）で一度だけこの型にデコードされ、
// 内部ロジックは生のマップを参照しません。
type TaskStatus string

const (
	StatusCreated    TaskStatus = "created"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)
