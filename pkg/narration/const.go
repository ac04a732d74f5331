package narration

import "time"

// ----------------------------------------------------------------------
// 合成モード選択定数
// ----------------------------------------------------------------------

const (
	// SyncTextRuneLimit 未満の文字数（rune数）のテキストは同期APIで合成します。
	// この閾値以上は非同期タスクとして投入します。
	SyncTextRuneLimit = 200
)

// ----------------------------------------------------------------------
// 非同期タスクのポーリング定数
// ----------------------------------------------------------------------

const (
	// DefaultPollInterval は状態確認の間隔です。
	DefaultPollInterval = 2 * time.Second

	// DefaultPollDeadline はタスク1件あたりの最大待機時間です。
	DefaultPollDeadline = 300 * time.Second

	// DefaultTransientRetryWait は、ポーリング中に通信エラーが起きた際の
	// 再試行までの待機時間です。通信エラーは一時的なものとして扱い、
	// 全体の締め切りにのみ従います。
	DefaultTransientRetryWait = 5 * time.Second

	// DefaultTransientRetryMax は1回の状態確認あたりの通信エラー再試行回数です。
	DefaultTransientRetryMax = 3
)

// ----------------------------------------------------------------------
// バッチ実行定数
// ----------------------------------------------------------------------

const (
	// DefaultMaxParallelLines は同時に合成する行数の上限です。
	DefaultMaxParallelLines = 4

	// DefaultJobCreateInterval はバックエンドのレート制限を尊重するための
	// ジョブ投入間隔です。
	DefaultJobCreateInterval = 500 * time.Millisecond

	// DefaultLineGap は結合時に行間へ一律に挿入する無音相当の間隔です。
	DefaultLineGap = 100 * time.Millisecond
)

// ----------------------------------------------------------------------
// 成果物命名定数
// ----------------------------------------------------------------------

const (
	// 行ごとの成果物は1始まりのインデックスをゼロ埋めした名前で永続化します。
	// この名前の存在だけが「その行は合成済み」という再開判定のシグナルです。
	LineAudioNameFormat    = "line_%04d.mp3"
	LineSubtitleNameFormat = "line_%04d.srt"

	// 一時成果物を置くサブディレクトリ名
	TempDirName = "tmp"
)

// ----------------------------------------------------------------------
// テキスト整形定数
// ----------------------------------------------------------------------

const (
	// sanitizePrefixWordCount はバックエンドが内部の一時保存名の導出に使う
	// 先頭単語数です。この範囲だけを無害化します。
	sanitizePrefixWordCount = 10

	// linePreviewRuneLimit はエラー報告に添える行テキストの最大文字数です。
	linePreviewRuneLimit = 100

	// FallbackText は整形の結果テキストが空になった場合に代わりに送る
	// 固定の非空テキストです。空文字列の送信はバックエンドが拒否します。
	FallbackText = "text"
)
