package narration

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"

	"github.com/shouni/go-narration-kit/pkg/narration/api"
)

// ----------------------------------------------------------------------
// 合成ジョブクライアント
// ----------------------------------------------------------------------

// SynthesizerConfig はジョブ実行中のタイミング設定を保持します。
type SynthesizerConfig struct {
	PollInterval       time.Duration
	PollDeadline       time.Duration
	TransientRetryWait time.Duration
	TransientRetryMax  uint64
}

// Synthesizer は1行分のテキストをバックエンドで音声へ合成します。
// テキスト長に応じて同期・非同期の呼び出し形態を選択し、非同期タスクの
// 作成・ポーリング・成果物取得までを担います。
// ジョブ単位を超えるリトライはここでは行いません（行実行側の責務）。
type Synthesizer struct {
	api    SynthesisAPI
	config SynthesizerConfig
}

// NewSynthesizer は新しい Synthesizer を生成します。ゼロ値の設定には既定値を補います。
func NewSynthesizer(apiClient SynthesisAPI, config SynthesizerConfig) *Synthesizer {
	if config.PollInterval == 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.PollDeadline == 0 {
		config.PollDeadline = DefaultPollDeadline
	}
	if config.TransientRetryWait == 0 {
		config.TransientRetryWait = DefaultTransientRetryWait
	}
	if config.TransientRetryMax == 0 {
		config.TransientRetryMax = DefaultTransientRetryMax
	}

	return &Synthesizer{
		api:    apiClient,
		config: config,
	}
}

// Synthesize はテキスト1行を音声（と存在すれば字幕）へ合成します。
// 文字数（rune数）が SyncTextRuneLimit 未満なら同期API、以上なら非同期タスクを使います。
// モードはジョブ作成時に一度だけ決まり、途中で変わることはありません。
func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice VoiceProfile) (*SynthesisResult, error) {
	req := api.TaskRequest{
		Text:   text,
		Voice:  voice.Voice,
		Pitch:  voice.Pitch,
		Rate:   voice.Rate,
		Volume: voice.Volume,
	}

	if utf8.RuneCountInString(text) < SyncTextRuneLimit {
		return s.synthesizeSync(ctx, req)
	}
	return s.synthesizeAsync(ctx, req)
}

// ----------------------------------------------------------------------
// 同期パス
// ----------------------------------------------------------------------

func (s *Synthesizer) synthesizeSync(ctx context.Context, req api.TaskRequest) (*SynthesisResult, error) {
	resp, err := s.api.SynthesizeSync(ctx, req)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		msg := "詳細不明"
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return nil, &ErrBackend{Message: msg}
	}

	return s.fetchResult(ctx, resp.Result)
}

// ----------------------------------------------------------------------
// 非同期パス
// ----------------------------------------------------------------------

func (s *Synthesizer) synthesizeAsync(ctx context.Context, req api.TaskRequest) (*SynthesisResult, error) {
	// 非同期パスはバックエンドが先頭単語から一時保存名を導出するため、
	// 投入テキストのみ無害化する（同期パスにはこの不具合はない）
	req.Text = SanitizeForAsync(req.Text)

	taskID, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "非同期合成タスクを作成しました", "task_id", taskID, "text_length", utf8.RuneCountInString(req.Text))

	deadline := time.Now().Add(s.config.PollDeadline)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		status, err := s.pollStatus(ctx, taskID)
		if err != nil {
			var netErr *api.ErrAPINetwork
			if errors.As(err, &netErr) {
				// 通信エラーは一時的なものとして扱い、締め切りのみを失敗条件とする
				slog.WarnContext(ctx, "タスク状態確認の通信エラー。ポーリングを継続します。",
					"task_id", taskID, "error", err)
				if time.Now().After(deadline) {
					return nil, &ErrPollTimeout{TaskID: taskID, Waited: s.config.PollDeadline}
				}
				continue
			}
			return nil, err
		}

		switch status.Status {
		case api.StatusCompleted:
			return s.fetchResult(ctx, status.Result)

		case api.StatusFailed:
			// バックエンド自身のメッセージをそのまま表面化する
			msg := "詳細不明"
			if status.Error != nil && status.Error.Message != "" {
				msg = status.Error.Message
			}
			return nil, &ErrBackend{TaskID: taskID, Message: msg}

		default:
			// created / processing / 未知の状態はそのままポーリングを継続
		}

		if time.Now().After(deadline) {
			return nil, &ErrPollTimeout{TaskID: taskID, Waited: s.config.PollDeadline}
		}
	}
}

// pollStatus は状態確認を1回実行します。通信エラーに限り、一定間隔の
// 有限回リトライ（TransientRetryWait × TransientRetryMax）を内包します。
// バックエンドが報告した失敗は即座に呼び出し元へ返します。
func (s *Synthesizer) pollStatus(ctx context.Context, taskID string) (*api.StatusResponse, error) {
	var status *api.StatusResponse

	operation := func() error {
		res, err := s.api.TaskStatus(ctx, taskID)
		if err != nil {
			var netErr *api.ErrAPINetwork
			if errors.As(err, &netErr) {
				return err // 一時的エラーとしてリトライ対象
			}
			return backoff.Permanent(err)
		}
		status = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(s.config.TransientRetryWait),
			s.config.TransientRetryMax,
		),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return status, nil
}

// ----------------------------------------------------------------------
// 成果物取得
// ----------------------------------------------------------------------

// fetchResult はバックエンドが採番した成果物名から音声・字幕を取得します。
// 字幕はないこともあり、その場合 SubtitleSRT は空のままです。
func (s *Synthesizer) fetchResult(ctx context.Context, result *api.TaskResult) (*SynthesisResult, error) {
	audio, err := s.api.FetchArtifact(ctx, result.AudioName)
	if err != nil {
		return nil, err
	}

	synthesized := &SynthesisResult{Audio: audio}

	if result.SubtitleName != "" {
		subtitle, err := s.api.FetchArtifact(ctx, result.SubtitleName)
		if err != nil {
			return nil, err
		}
		synthesized.SubtitleSRT = string(subtitle)
	}

	return synthesized, nil
}
