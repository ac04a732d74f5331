package narration

import (
	"context"
	"time"

	"github.com/shouni/go-narration-kit/pkg/narration/api"
)

// ----------------------------------------------------------------------
// インターフェース
// ----------------------------------------------------------------------

// PipelineExecutor は、ナレーションスクリプト1本を結合済みの音声・字幕ペアへ
// 変換する契約を定義します。オプションは Functional Options Pattern で渡します。
type PipelineExecutor interface {
	// Execute はスクリプトを行単位で合成し、結合済み成果物を生成します。
	Execute(ctx context.Context, scriptContent string, runKey string, opts ...ExecuteOption) (*MergedTimeline, error)

	// Resume は同じ runKey の中断済み実行を明示的に再開します。
	// 再開は成果物の存在走査に基づくため、Execute と同じ入力を要求します。
	Resume(ctx context.Context, scriptContent string, runKey string, opts ...ExecuteOption) (*MergedTimeline, error)
}

// SynthesisAPI は Synthesizer がバックエンドに要求する呼び出しを抽象化します。
// api.Client がこれを満たします。
type SynthesisAPI interface {
	CreateTask(ctx context.Context, req api.TaskRequest) (string, error)
	TaskStatus(ctx context.Context, taskID string) (*api.StatusResponse, error)
	FetchArtifact(ctx context.Context, name string) ([]byte, error)
	SynthesizeSync(ctx context.Context, req api.TaskRequest) (*api.SyncResponse, error)
}

// LineSynthesizer は Pipeline が1行分の合成に要求するインターフェースです。
type LineSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice VoiceProfile) (*SynthesisResult, error)
}

// ----------------------------------------------------------------------
// データモデル
// ----------------------------------------------------------------------

// SynthesisResult は1行分の合成結果です。
// SubtitleSRT はバックエンドが字幕を返さなかった場合は空のままです。
type SynthesisResult struct {
	Audio       []byte
	SubtitleSRT string
}

// MergedTimeline は実行1回分の最終出力です。
type MergedTimeline struct {
	AudioPath     string
	SubtitlePath  string
	LineCount     int
	TotalDuration time.Duration
}
