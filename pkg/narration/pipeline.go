package narration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/shouni/go-narration-kit/pkg/narration/audio"
	"github.com/shouni/go-narration-kit/pkg/narration/subtitle"
)

// ----------------------------------------------------------------------
// バッチオーケストレーター
// ----------------------------------------------------------------------

// PipelineConfig は Pipeline の動作設定を保持します。
type PipelineConfig struct {
	OutputDir         string
	MaxParallelLines  int
	JobCreateInterval time.Duration
}

// Pipeline はナレーションスクリプト1本を、行単位の合成を経て
// 結合済みの音声・字幕ペアへ変換します。
// 行インデックスの順序はスクリプト解析から最終出力まで一貫して保たれます。
type Pipeline struct {
	synth     LineSynthesizer
	config    PipelineConfig
	limiter   *rate.Limiter
	estimator *subtitle.Estimator
}

// NewPipeline は新しい Pipeline インスタンスを作成し、依存関係を注入します。
func NewPipeline(synth LineSynthesizer, config PipelineConfig) *Pipeline {
	if config.MaxParallelLines == 0 {
		config.MaxParallelLines = DefaultMaxParallelLines
	}
	if config.JobCreateInterval == 0 {
		config.JobCreateInterval = DefaultJobCreateInterval
	}

	return &Pipeline{
		synth:     synth,
		config:    config,
		limiter:   rate.NewLimiter(rate.Every(config.JobCreateInterval), 1),
		estimator: subtitle.NewEstimator(),
	}
}

// ----------------------------------------------------------------------
// Executeメソッド用のオプション定義 (Functional Options Pattern)
// ----------------------------------------------------------------------

// ExecuteConfig は Execute メソッドの実行中に適用されるオプション設定を保持します。
type ExecuteConfig struct {
	Voice   VoiceProfile
	LineGap time.Duration
}

// ExecuteOption はオプションを適用するための関数シグネチャです。
type ExecuteOption func(*ExecuteConfig)

// newExecuteConfig は Execute のデフォルト設定を初期化します。
func newExecuteConfig() *ExecuteConfig {
	return &ExecuteConfig{
		Voice:   SupportedVoices[DefaultVoiceName],
		LineGap: DefaultLineGap,
	}
}

// WithVoice は実行1回分の音声プロファイルを指定するオプションです。
func WithVoice(profile VoiceProfile) ExecuteOption {
	return func(cfg *ExecuteConfig) {
		if profile.Voice != "" {
			cfg.Voice = profile
		}
	}
}

// WithLineGap は結合時の行間隔を指定するオプションです。
func WithLineGap(gap time.Duration) ExecuteOption {
	return func(cfg *ExecuteConfig) {
		if gap >= 0 {
			cfg.LineGap = gap
		}
	}
}

// ----------------------------------------------------------------------
// 実行キー
// ----------------------------------------------------------------------

// MakeRunKey は実行を識別する入力から決定的な実行キーを導出します。
// 同じ入力で再起動すれば同じ一時ディレクトリが見つかり、中断した実行を
// 再開できます。
func MakeRunKey(creatorID, videoID string) string {
	key := creatorID + "_" + videoID

	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, key)
}

// ----------------------------------------------------------------------
// メイン処理 (Execute / Resume)
// ----------------------------------------------------------------------

// Execute はスクリプトを行単位で合成し、結合済みの音声・字幕を生成します。
// 行単位の成果物が既に存在すればその行の合成はスキップされるため、
// 中断後に同じ runKey で再実行すれば未完了の行だけが合成されます。
// いずれかの行が失敗した場合は結合を行わず、完了済みの成果物は
// 次回の再開のためにそのまま残します。
func (p *Pipeline) Execute(ctx context.Context, scriptContent string, runKey string, opts ...ExecuteOption) (*MergedTimeline, error) {
	cfg := newExecuteConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	lines := ParseScript(scriptContent)
	if len(lines) == 0 {
		return nil, &ErrEmptyScript{}
	}

	tmpDir := filepath.Join(p.config.OutputDir, TempDirName, runKey)
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return nil, fmt.Errorf("一時ディレクトリの作成に失敗しました (%s): %w", tmpDir, err)
	}

	// 再開判定は開始時の一度の走査に基づく（行ごとの都度確認はしない）
	completed, err := scanCompletedIndexes(tmpDir)
	if err != nil {
		return nil, err
	}
	if len(completed) > 0 {
		slog.InfoContext(ctx, "既存の成果物を検出しました。完了済みの行はスキップします。",
			"run_key", runKey, "completed_lines", len(completed), "total_lines", len(lines))
	}

	artifacts, err := p.synthesizeLines(ctx, lines, cfg.Voice, tmpDir, completed)
	if err != nil {
		return nil, err
	}

	return p.mergeArtifacts(ctx, lines, artifacts, runKey, tmpDir, cfg.LineGap)
}

// Resume は中断済みの実行を明示的に再開します。
// 再開は成果物の存在走査そのものであり、Execute と同じ経路を通ります。
func (p *Pipeline) Resume(ctx context.Context, scriptContent string, runKey string, opts ...ExecuteOption) (*MergedTimeline, error) {
	tmpDir := filepath.Join(p.config.OutputDir, TempDirName, runKey)

	completed, err := scanCompletedIndexes(tmpDir)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "実行を再開します", "run_key", runKey, "completed_lines", len(completed))

	return p.Execute(ctx, scriptContent, runKey, opts...)
}

// ----------------------------------------------------------------------
// 行単位の並列合成
// ----------------------------------------------------------------------

// lineResult は並列合成1行分の結果です。
type lineResult struct {
	index    int
	artifact lineArtifact
	err      error
}

// synthesizeLines は全行をセマフォで制限された並列度で合成し、
// インデックス順の成果物列を返します。結合はすべての行の完了後にのみ
// 始まるため、ここが順序保証の完了バリアになります。
func (p *Pipeline) synthesizeLines(ctx context.Context, lines []Line, voice VoiceProfile, tmpDir string, completed map[int]bool) ([]lineArtifact, error) {
	semaphore := make(chan struct{}, p.config.MaxParallelLines)
	wg := sync.WaitGroup{}
	resultsChan := make(chan lineResult, len(lines))

	slog.InfoContext(ctx, "ナレーション合成バッチ処理開始",
		"total_lines", len(lines), "max_parallel", p.config.MaxParallelLines, "voice", voice.Voice)

	for _, line := range lines {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "バッチ処理ループが外部コンテキストキャンセルにより終了しました。")
			goto END_LOOP
		case semaphore <- struct{}{}:
			// セマフォ確保成功
		}

		wg.Add(1)

		go func(line Line) {
			defer wg.Done()
			defer func() { <-semaphore }()

			artifact, err := p.processLine(ctx, line, voice, tmpDir, completed)
			resultsChan <- lineResult{index: line.Index, artifact: artifact, err: err}
		}(line)
	}

END_LOOP:
	wg.Wait()
	close(resultsChan)

	artifacts := make([]lineArtifact, len(lines))
	var firstLineErr *ErrLineSynthesis
	var otherErr error
	failureCount := 0
	successCount := 0

	for res := range resultsChan {
		if res.err != nil {
			failureCount++

			var lineErr *ErrLineSynthesis
			if errors.As(res.err, &lineErr) {
				// 並列実行では複数行が同時に失敗し得る。報告は決定的にするため
				// 最小インデックスの失敗を代表として返す。
				if firstLineErr == nil || lineErr.Index < firstLineErr.Index {
					firstLineErr = lineErr
				}
			} else if otherErr == nil {
				otherErr = res.err
			}
			continue
		}

		artifacts[res.index-1] = res.artifact
		successCount++
	}

	if firstLineErr != nil {
		if failureCount > 1 {
			slog.ErrorContext(ctx, "複数の行が失敗しました。最小インデックスの失敗を報告します。",
				"failures", failureCount)
		}
		return nil, firstLineErr
	}
	if otherErr != nil {
		return nil, otherErr
	}
	if successCount < len(lines) {
		// キャンセルにより未着手の行が残った場合
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("合成結果が不足しています (%d/%d 行)", successCount, len(lines))
	}

	return artifacts, nil
}

// ----------------------------------------------------------------------
// 結合とクリーンアップ
// ----------------------------------------------------------------------

// mergeArtifacts は行ごとの成果物を結合し、最終出力ペアを書き出します。
// 字幕の再タイミングには音声結合時の実測値のみを使います。
func (p *Pipeline) mergeArtifacts(ctx context.Context, lines []Line, artifacts []lineArtifact, runKey string, tmpDir string, gap time.Duration) (*MergedTimeline, error) {
	segments := make([][]byte, len(artifacts))
	for i, artifact := range artifacts {
		data, err := os.ReadFile(artifact.AudioPath)
		if err != nil {
			return nil, fmt.Errorf("行 %d の音声成果物の読み込みに失敗しました: %w", artifact.Index, err)
		}
		segments[i] = data
	}

	mergedAudio, durations, err := audio.Concat(segments)
	if err != nil {
		return nil, fmt.Errorf("音声の結合に失敗しました: %w", err)
	}

	entries := make([][]subtitle.Cue, len(artifacts))
	for i, artifact := range artifacts {
		if artifact.SubtitlePath != "" {
			content, err := os.ReadFile(artifact.SubtitlePath)
			if err != nil {
				return nil, fmt.Errorf("行 %d の字幕成果物の読み込みに失敗しました: %w", artifact.Index, err)
			}

			cues, err := subtitle.ParseSRT(string(content))
			if err != nil {
				return nil, fmt.Errorf("行 %d の字幕の解析に失敗しました: %w", artifact.Index, err)
			}
			entries[i] = cues
			continue
		}

		// バックエンドが字幕を返さなかった行は読み上げ速度モデルで推定し、
		// 実測の音声長へ比例補正する
		entries[i] = subtitle.Rescale(p.estimator.Estimate(lines[i].Text), durations[i])
	}

	mergedSubtitle := subtitle.Merge(entries, durations, gap)

	if err := os.MkdirAll(p.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("出力ディレクトリの作成に失敗しました (%s): %w", p.config.OutputDir, err)
	}

	audioPath := filepath.Join(p.config.OutputDir, runKey+".mp3")
	subtitlePath := filepath.Join(p.config.OutputDir, runKey+".srt")

	if err := os.WriteFile(audioPath, mergedAudio, 0644); err != nil {
		return nil, fmt.Errorf("結合音声の書き込みに失敗しました: %w", err)
	}
	if err := os.WriteFile(subtitlePath, []byte(mergedSubtitle), 0644); err != nil {
		return nil, fmt.Errorf("結合字幕の書き込みに失敗しました: %w", err)
	}

	// 行ごとの一時成果物は結合の成功後にのみ削除する
	if err := os.RemoveAll(tmpDir); err != nil {
		slog.WarnContext(ctx, "一時成果物の削除に失敗しました", "dir", tmpDir, "error", err)
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	if len(durations) > 1 {
		total += gap * time.Duration(len(durations)-1)
	}

	slog.InfoContext(ctx, "ナレーションの結合が完了しました",
		"lines", len(lines), "total_duration", total.String(),
		"audio", audioPath, "subtitle", subtitlePath)

	return &MergedTimeline{
		AudioPath:     audioPath,
		SubtitlePath:  subtitlePath,
		LineCount:     len(lines),
		TotalDuration: total,
	}, nil
}
