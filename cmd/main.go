package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shouni/go-narration-kit/pkg/narration"
)

// ----------------------------------------------------------------------
// 設定定数
// ----------------------------------------------------------------------

const (
	// HTTPクライアントの基本タイムアウト。非同期タスクの完了待ちは
	// パイプライン側のポーリング締め切りが別途管理する。
	appClientTimeout = 60 * time.Second

	// 出力先ディレクトリ (NARRATION_OUTPUT_DIR で上書き可能)
	defaultOutputDir = "asset"
)

func main() {
	// ログ設定
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "使い方: %s <スクリプトファイル> <クリエイターID> <ビデオID>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	scriptPath := os.Args[1]
	creatorID := os.Args[2]
	videoID := os.Args[3]

	// 実行コンテキスト
	ctx := context.Background()

	outputDir := os.Getenv("NARRATION_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	slog.Info("ナレーションパイプラインの初期化を開始します...")

	// 1. Executorの初期化 (narrationパッケージに集約されたロジックを使用)
	executor, err := narration.NewPipelineExecutor(ctx, appClientTimeout, outputDir, true)
	if err != nil {
		slog.Error("ナレーションパイプラインの初期化に失敗しました。", "error", err)
		os.Exit(1)
	}

	// 2. スクリプトの読み込み
	scriptBytes, err := os.ReadFile(scriptPath)
	if err != nil {
		slog.Error("スクリプトファイルの読み込みに失敗しました。", "path", scriptPath, "error", err)
		os.Exit(1)
	}

	// 3. 音声プロファイルの選択
	voiceName := os.Getenv("NARRATION_VOICE")
	if voiceName == "" {
		voiceName = narration.DefaultVoiceName
	}
	voice, ok := narration.LookupVoice(voiceName)
	if !ok {
		slog.Error("音声プロファイルが見つかりません。", "voice", voiceName)
		os.Exit(1)
	}

	// 4. 合成の実行
	runKey := narration.MakeRunKey(creatorID, videoID)
	slog.Info("ナレーション合成処理を開始します。", "run_key", runKey, "voice", voiceName)

	timeline, err := executor.Execute(ctx, string(scriptBytes), runKey, narration.WithVoice(voice))
	if err != nil {
		// 失敗した行のインデックスとテキストの先頭部分はエラーに含まれている。
		// 完了済みの行の成果物は残っているため、同じ引数での再実行が再開になる。
		var lineErr *narration.ErrLineSynthesis
		if errors.As(err, &lineErr) {
			slog.Error("ナレーション合成の実行に失敗しました。同じ引数で再実行すると完了済みの行はスキップされます。",
				"line_index", lineErr.Index, "error", err)
		} else {
			slog.Error("ナレーション合成の実行に失敗しました。", "error", err)
		}
		os.Exit(1)
	}

	audioAbs, _ := filepath.Abs(timeline.AudioPath)
	subtitleAbs, _ := filepath.Abs(timeline.SubtitlePath)
	slog.Info(fmt.Sprintf("✅ ナレーション合成が正常に完了しました。音声: %s 字幕: %s", audioAbs, subtitleAbs),
		"lines", timeline.LineCount, "total_duration", timeline.TotalDuration.String())
}
