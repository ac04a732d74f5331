package narration

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shouni/go-narration-kit/pkg/narration/api"
)

// ----------------------------------------------------------------------
// No-op パターン
// ----------------------------------------------------------------------

// noopPipelineExecutor は PipelineExecutor インターフェースを満たすダミー実装です。
type noopPipelineExecutor struct{}

// Execute は何もしません。
func (n *noopPipelineExecutor) Execute(ctx context.Context, scriptContent string, runKey string, opts ...ExecuteOption) (*MergedTimeline, error) {
	slog.Info("ナレーション合成機能は無効です。Execute呼び出しはスキップされました。",
		"run_key", runKey, "script_length", len(scriptContent))
	return &MergedTimeline{}, nil
}

// Resume は何もしません。
func (n *noopPipelineExecutor) Resume(ctx context.Context, scriptContent string, runKey string, opts ...ExecuteOption) (*MergedTimeline, error) {
	slog.Info("ナレーション合成機能は無効です。Resume呼び出しはスキップされました。", "run_key", runKey)
	return &MergedTimeline{}, nil
}

// ----------------------------------------------------------------------
// Factory 関数
// ----------------------------------------------------------------------

// defaultAPIURL は NARRATION_API_URL が未設定の場合の接続先です。
const defaultAPIURL = "http://localhost:8880"

// NewPipelineExecutor は、バックエンドへのクライアント、合成ジョブクライアント、
// バッチオーケストレーターを組み立てて PipelineExecutor として返します。
func NewPipelineExecutor(
	ctx context.Context,
	httpTimeout time.Duration,
	outputDir string,
	narrationOutput bool,
) (PipelineExecutor, error) {
	// ナレーション合成を使用しない場合はダミーのExecutorを返す (No-opパターン)
	if !narrationOutput {
		slog.Info("ナレーション合成機能は無効です。ダミーのExecutorを返します。", "action", "skip_initialization")
		return &noopPipelineExecutor{}, nil
	}

	// 1. API URLの設定
	apiURL := os.Getenv("NARRATION_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
		slog.Warn("NARRATION_API_URL 環境変数が設定されていません。", "default_url", apiURL)
	}

	// 2. クライアントと合成ジョブクライアントの初期化
	client := api.NewClient(apiURL, httpTimeout)
	synth := NewSynthesizer(client, SynthesizerConfig{})

	// 3. Pipelineの組み立てとExecutorとしての返却
	pipeline := NewPipeline(synth, PipelineConfig{OutputDir: outputDir})

	slog.InfoContext(ctx, "ナレーションパイプラインの初期化が完了しました。",
		"api_url", apiURL,
		"output_dir", outputDir,
		"max_parallel", pipeline.config.MaxParallelLines,
		"poll_deadline", DefaultPollDeadline.String())

	return pipeline, nil
}
